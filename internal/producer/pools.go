package producer

var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et", "dolore",
	"magna", "aliqua", "enim", "ad", "minim", "veniam", "quis", "nostrud",
	"exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea", "commodo",
	"consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "product", "service", "platform",
	"digital", "cloud", "data", "system", "network", "security", "performance",
	"solution", "integration", "analytics", "automation", "infrastructure",
	"management", "enterprise", "scalable", "reliable", "efficient", "innovative",
	"modern", "advanced", "premium", "professional", "dynamic", "global",
	"strategic", "customer", "market", "growth", "development", "technology",
}
