// internal/quiz/bank.go
package quiz

import "prepline/internal/models"

// defaultBank holds the compiled-in question pool, keyed by category code.
// Answer is the index into Choices.
var defaultBank = map[string][]models.Question{
	"apis": {
		{ID: "apis-1", CategoryCode: "apis", Prompt: "Which HTTP status code signals that a resource was created?", Choices: []string{"200", "201", "204", "301"}, Answer: 1},
		{ID: "apis-2", CategoryCode: "apis", Prompt: "Which HTTP method is idempotent by specification?", Choices: []string{"POST", "PATCH", "PUT", "CONNECT"}, Answer: 2},
		{ID: "apis-3", CategoryCode: "apis", Prompt: "What does a 429 response indicate?", Choices: []string{"Server error", "Rate limit exceeded", "Payload too large", "Unauthorized"}, Answer: 1},
		{ID: "apis-4", CategoryCode: "apis", Prompt: "Where does a REST API conventionally carry a bearer token?", Choices: []string{"Query string", "Request body", "Authorization header", "Cookie only"}, Answer: 2},
		{ID: "apis-5", CategoryCode: "apis", Prompt: "Which header drives HTTP content negotiation?", Choices: []string{"Accept", "Host", "Origin", "Referer"}, Answer: 0},
	},
	"databases": {
		{ID: "databases-1", CategoryCode: "databases", Prompt: "Which isolation level prevents dirty reads but allows non-repeatable reads?", Choices: []string{"Read uncommitted", "Read committed", "Repeatable read", "Serializable"}, Answer: 1},
		{ID: "databases-2", CategoryCode: "databases", Prompt: "What does a composite index on (a, b) efficiently support?", Choices: []string{"Filtering on b alone", "Filtering on a alone", "Any OR condition", "Full-text search"}, Answer: 1},
		{ID: "databases-3", CategoryCode: "databases", Prompt: "Normalization to third normal form primarily removes what?", Choices: []string{"Indexes", "Transitive dependencies", "Foreign keys", "Views"}, Answer: 1},
		{ID: "databases-4", CategoryCode: "databases", Prompt: "Which join returns all rows from the left table regardless of matches?", Choices: []string{"INNER", "LEFT OUTER", "CROSS", "SELF"}, Answer: 1},
		{ID: "databases-5", CategoryCode: "databases", Prompt: "What is the purpose of a write-ahead log?", Choices: []string{"Query caching", "Crash recovery durability", "Access control", "Schema migration"}, Answer: 1},
	},
	"concurrency": {
		{ID: "concurrency-1", CategoryCode: "concurrency", Prompt: "Two transactions each waiting on the other's lock is called what?", Choices: []string{"Starvation", "Livelock", "Deadlock", "Race"}, Answer: 2},
		{ID: "concurrency-2", CategoryCode: "concurrency", Prompt: "What property does an idempotent consumer give a message pipeline?", Choices: []string{"Ordering", "Safe redelivery", "Lower latency", "Compression"}, Answer: 1},
		{ID: "concurrency-3", CategoryCode: "concurrency", Prompt: "Optimistic concurrency control detects conflicts by checking what?", Choices: []string{"Row locks", "A version stamp", "Thread IDs", "Connection count"}, Answer: 1},
		{ID: "concurrency-4", CategoryCode: "concurrency", Prompt: "Which consistency model guarantees reads reflect all prior writes?", Choices: []string{"Eventual", "Causal", "Strong", "Monotonic reads"}, Answer: 2},
	},
	"testing": {
		{ID: "testing-1", CategoryCode: "testing", Prompt: "In the test pyramid, which layer should have the most tests?", Choices: []string{"End-to-end", "Integration", "Unit", "Manual"}, Answer: 2},
		{ID: "testing-2", CategoryCode: "testing", Prompt: "A test double that records how it was called is a what?", Choices: []string{"Stub", "Spy", "Dummy", "Fixture"}, Answer: 1},
		{ID: "testing-3", CategoryCode: "testing", Prompt: "What does a flaky test most commonly indicate?", Choices: []string{"Slow CI", "Hidden nondeterminism", "Too many assertions", "Missing coverage"}, Answer: 1},
		{ID: "testing-4", CategoryCode: "testing", Prompt: "Property-based testing verifies behavior against what?", Choices: []string{"Recorded traffic", "Generated inputs and invariants", "Production logs", "Code review notes"}, Answer: 1},
	},
	"security": {
		{ID: "security-1", CategoryCode: "security", Prompt: "Parameterized queries primarily defend against what?", Choices: []string{"XSS", "CSRF", "SQL injection", "Clickjacking"}, Answer: 2},
		{ID: "security-2", CategoryCode: "security", Prompt: "Which is the correct way to store user passwords?", Choices: []string{"AES encrypted", "Salted adaptive hash", "Base64 encoded", "Plaintext over TLS"}, Answer: 1},
		{ID: "security-3", CategoryCode: "security", Prompt: "The principle of least privilege means granting what?", Choices: []string{"Admin to trusted users", "The minimum access required", "Read-only everywhere", "Time-boxed admin"}, Answer: 1},
	},
	"observability": {
		{ID: "observability-1", CategoryCode: "observability", Prompt: "Which signal type is best for tracking a request across services?", Choices: []string{"Metrics", "Logs", "Distributed traces", "Heartbeats"}, Answer: 2},
		{ID: "observability-2", CategoryCode: "observability", Prompt: "A histogram metric is most appropriate for recording what?", Choices: []string{"Error flags", "Latency distributions", "Build versions", "Feature toggles"}, Answer: 1},
		{ID: "observability-3", CategoryCode: "observability", Prompt: "An SLO burn-rate alert fires when what happens?", Choices: []string{"Any error occurs", "Error budget is consumed too fast", "CPU exceeds 80%", "Deploys are frequent"}, Answer: 1},
	},
	"compute": {
		{ID: "compute-1", CategoryCode: "compute", Prompt: "Horizontal scaling means adding what?", Choices: []string{"CPU to one node", "More nodes", "More disks", "More RAM"}, Answer: 1},
		{ID: "compute-2", CategoryCode: "compute", Prompt: "A subnet with no route to an internet gateway is called what?", Choices: []string{"Public", "Private", "Peered", "Elastic"}, Answer: 1},
	},
	"storage": {
		{ID: "storage-1", CategoryCode: "storage", Prompt: "Object storage is best suited to which workload?", Choices: []string{"Relational joins", "Immutable blobs at scale", "Row-level locking", "In-memory caching"}, Answer: 1},
	},
	"resilience": {
		{ID: "resilience-1", CategoryCode: "resilience", Prompt: "A circuit breaker protects a caller by doing what?", Choices: []string{"Retrying forever", "Failing fast after repeated errors", "Caching responses", "Re-routing DNS"}, Answer: 1},
	},
	"cost": {
		{ID: "cost-1", CategoryCode: "cost", Prompt: "Reserved capacity pricing trades flexibility for what?", Choices: []string{"Lower unit cost", "More regions", "Faster CPUs", "Better SLAs"}, Answer: 0},
	},
	"pipelines": {
		{ID: "pipelines-1", CategoryCode: "pipelines", Prompt: "Backfilling a pipeline means doing what?", Choices: []string{"Deleting old data", "Re-running over historical windows", "Doubling throughput", "Switching schedulers"}, Answer: 1},
	},
	"warehousing": {
		{ID: "warehousing-1", CategoryCode: "warehousing", Prompt: "In a star schema, facts reference dimensions via what?", Choices: []string{"Surrogate keys", "Natural joins", "Views", "Triggers"}, Answer: 0},
	},
	"streaming": {
		{ID: "streaming-1", CategoryCode: "streaming", Prompt: "Watermarks in a stream processor track what?", Choices: []string{"Disk usage", "Event-time progress", "Consumer lag", "Schema versions"}, Answer: 1},
	},
	"quality": {
		{ID: "quality-1", CategoryCode: "quality", Prompt: "A freshness check on a table asserts what?", Choices: []string{"Row counts match", "Data arrived recently", "No nulls exist", "Types are stable"}, Answer: 1},
	},
	"governance": {
		{ID: "governance-1", CategoryCode: "governance", Prompt: "Column-level lineage answers which question?", Choices: []string{"Who queried a table", "Where a field's values come from", "How large a table is", "When backups ran"}, Answer: 1},
	},
}

// DefaultBank returns the compiled-in question pool.
func DefaultBank() map[string][]models.Question {
	return defaultBank
}
