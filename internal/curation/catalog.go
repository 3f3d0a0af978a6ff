// internal/curation/catalog.go
package curation

import "prepline/internal/models"

// defaultCatalog maps a category code to its study resources. Compiled in so
// curation works offline; a deployment can load its own catalog instead.
var defaultCatalog = map[string][]models.Resource{
	"apis": {
		{CategoryCode: "apis", Title: "RESTful Web API Design", URL: "https://learn.microsoft.com/azure/architecture/best-practices/api-design", Type: models.ResourceDocs, DurationHours: 3},
		{CategoryCode: "apis", Title: "HTTP API Workshop", URL: "https://www.coursera.org/learn/http-api-design", Type: models.ResourceCourse, DurationHours: 12},
		{CategoryCode: "apis", Title: "Build a JSON API from Scratch", URL: "https://www.youtube.com/watch?v=api-lab", Type: models.ResourceVideo, DurationHours: 2},
	},
	"databases": {
		{CategoryCode: "databases", Title: "Database Design Fundamentals", URL: "https://www.coursera.org/learn/database-design", Type: models.ResourceCourse, DurationHours: 15},
		{CategoryCode: "databases", Title: "Use The Index, Luke", URL: "https://use-the-index-luke.com/", Type: models.ResourceDocs, DurationHours: 6},
		{CategoryCode: "databases", Title: "SQL Practice Problems", URL: "https://www.hackerrank.com/domains/sql", Type: models.ResourcePractice, DurationHours: 8},
	},
	"concurrency": {
		{CategoryCode: "concurrency", Title: "Concurrency Patterns Deep Dive", URL: "https://www.udemy.com/course/concurrency-patterns", Type: models.ResourceCourse, DurationHours: 10},
		{CategoryCode: "concurrency", Title: "Designing Data-Intensive Applications, Ch. 5-9", URL: "https://dataintensive.net/", Type: models.ResourceBook, DurationHours: 20},
	},
	"testing": {
		{CategoryCode: "testing", Title: "Practical Test Pyramid", URL: "https://martinfowler.com/articles/practical-test-pyramid.html", Type: models.ResourceDocs, DurationHours: 2},
		{CategoryCode: "testing", Title: "Test-Driven Development Katas", URL: "https://www.codewars.com/collections/tdd-katas", Type: models.ResourcePractice, DurationHours: 10},
	},
	"security": {
		{CategoryCode: "security", Title: "OWASP Top Ten", URL: "https://owasp.org/www-project-top-ten/", Type: models.ResourceDocs, DurationHours: 4},
		{CategoryCode: "security", Title: "Web Security Academy", URL: "https://portswigger.net/web-security", Type: models.ResourcePractice, DurationHours: 15},
	},
	"observability": {
		{CategoryCode: "observability", Title: "Observability Engineering", URL: "https://www.oreilly.com/library/view/observability-engineering/9781492076438/", Type: models.ResourceBook, DurationHours: 12},
		{CategoryCode: "observability", Title: "Instrumenting Services Hands-On", URL: "https://www.youtube.com/watch?v=o11y-lab", Type: models.ResourceVideo, DurationHours: 3},
	},
	"compute": {
		{CategoryCode: "compute", Title: "Cloud Compute Fundamentals", URL: "https://www.coursera.org/learn/cloud-computing-basics", Type: models.ResourceCourse, DurationHours: 14},
		{CategoryCode: "compute", Title: "VPC Networking Guide", URL: "https://docs.aws.amazon.com/vpc/latest/userguide/what-is-amazon-vpc.html", Type: models.ResourceDocs, DurationHours: 5},
	},
	"storage": {
		{CategoryCode: "storage", Title: "Cloud Storage Options Compared", URL: "https://cloud.google.com/architecture/storage-advisor", Type: models.ResourceDocs, DurationHours: 4},
	},
	"resilience": {
		{CategoryCode: "resilience", Title: "Site Reliability Engineering", URL: "https://sre.google/sre-book/table-of-contents/", Type: models.ResourceBook, DurationHours: 18},
	},
	"cost": {
		{CategoryCode: "cost", Title: "Cloud Cost Optimization Pillar", URL: "https://docs.aws.amazon.com/wellarchitected/latest/cost-optimization-pillar/welcome.html", Type: models.ResourceDocs, DurationHours: 6},
	},
	"pipelines": {
		{CategoryCode: "pipelines", Title: "Data Pipelines Pocket Reference", URL: "https://www.oreilly.com/library/view/data-pipelines-pocket/9781492087823/", Type: models.ResourceBook, DurationHours: 10},
	},
	"warehousing": {
		{CategoryCode: "warehousing", Title: "Dimensional Modeling Primer", URL: "https://www.kimballgroup.com/data-warehouse-business-intelligence-resources/kimball-techniques/", Type: models.ResourceDocs, DurationHours: 8},
	},
	"streaming": {
		{CategoryCode: "streaming", Title: "Streaming Systems Course", URL: "https://www.coursera.org/learn/streaming-systems", Type: models.ResourceCourse, DurationHours: 16},
	},
	"quality": {
		{CategoryCode: "quality", Title: "Data Quality Testing Patterns", URL: "https://www.montecarlodata.com/blog-data-quality-testing/", Type: models.ResourceDocs, DurationHours: 3},
	},
	"governance": {
		{CategoryCode: "governance", Title: "Data Governance Fundamentals", URL: "https://www.udemy.com/course/data-governance", Type: models.ResourceCourse, DurationHours: 9},
	},
}

// DefaultCatalog returns the compiled-in catalog.
func DefaultCatalog() map[string][]models.Resource {
	return defaultCatalog
}
