// Package testutil provides shared testing utilities for the verse-embed application.
//
// It contains:
//
// 1. Database Test Helpers (db_helpers.go):
//   - SetupTestSQLite: Creates a throwaway SQLite database
//   - SetupTestPostgres: Connects to POSTGRES_TEST_URL or skips
//
// 2. Fakes (logger.go, embedder.go):
//   - MockLogger: Records structured log calls for assertions
//   - FakeEmbedder: Deterministic embedder with scripted failures
//
// 3. Test Data Fixtures (fixtures.go):
//   - TestVerses: Six verse records, one with empty searchable text
//   - GenerateVerseRecords: N synthetic records in corpus order
//   - WriteTestCorpus: Writes a small nested corpus file
//
// # Usage Examples
//
//	func TestSomething(t *testing.T) {
//		embedder := testutil.NewFakeEmbedder(8).FailOn(testutil.TestVerses[1].SearchableText, assert.AnError)
//		logger := testutil.NewMockLogger()
//		...
//		assert.True(t, logger.ContainsMessage("Embedding failed"))
//	}
package testutil
