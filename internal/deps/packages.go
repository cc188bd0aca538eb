package deps

import "github.com/forgeflow-labs/forgeflow/internal/pattern"

// baseTools are the tool entries every pattern starts from.
var baseTools = []Entry{
	{Name: "pytest", Constraint: ">=8.0, <9.0", Source: "base tooling"},
	{Name: "ruff", Constraint: ">=0.5, <1.0", Source: "base tooling"},
	{Name: "mypy", Constraint: ">=1.10, <2.0", Source: "base tooling"},
}

// patternTools are extra tool entries some patterns add on top of the base.
var patternTools = map[pattern.Name][]Entry{
	pattern.ParallelMapReduce: {
		{Name: "pytest-xdist", Constraint: ">=3.5, <4.0", Source: "pattern tooling"},
	},
}

// keywordPackages maps substrings of a utility's external-system text to
// the package that talks to that system. Matching is case-insensitive;
// first match per keyword wins, duplicates merge by name later.
var keywordPackages = []struct {
	Keyword    string
	Name       string
	Constraint string
}{
	{"postgres", "psycopg", ">=3.1, <4.0"},
	{"mysql", "pymysql", ">=1.1, <2.0"},
	{"legacy orm", "sqlalchemy", ">=1.4, <2.0"},
	{"database", "sqlalchemy", ">=2.0, <3.0"},
	{"redis", "redis", ">=5.0, <6.0"},
	{"cache", "redis", ">=5.0, <6.0"},
	{"kafka", "confluent-kafka", ">=2.3, <3.0"},
	{"queue", "pika", ">=1.3, <2.0"},
	{"s3", "boto3", ">=1.34, <2.0"},
	{"aws", "boto3", ">=1.34, <2.0"},
	{"anthropic", "anthropic", ">=0.30, <1.0"},
	{"openai", "openai", ">=1.30, <2.0"},
	{"llm", "openai", ">=1.30, <2.0"},
	{"embedding", "openai", ">=1.30, <2.0"},
	{"vector", "faiss-cpu", ">=1.8, <2.0"},
	{"web search", "duckduckgo-search", ">=6.0, <7.0"},
	{"scrape", "beautifulsoup4", ">=4.12, <5.0"},
	{"crawl", "beautifulsoup4", ">=4.12, <5.0"},
	{"http", "requests", ">=2.31, <3.0"},
	{"rest", "requests", ">=2.31, <3.0"},
	{"api", "requests", ">=2.31, <3.0"},
}
