// Package content defines the records the search index ingests and the
// sources that supply them.
//
// A content group is one independently fetchable unit of study material: a
// topic's sections, vocabulary, key facts and quiz questions. Sources fetch a
// [Group] document by its identifier; [Group.Records] validates each item and
// flattens the document into kind-tagged [Record] values in source order.
//
// # Sources
//
// Three implementations are provided:
//
//   - [InMemorySource]: groups registered in memory (tests, embedding)
//   - [FSSource]: <group>.json, <group>.yaml or <group>.yml files in an fs.FS
//   - [HTTPSource]: <baseURL>/<group>.json fetched over HTTP
//
// A group that does not exist is reported as [ErrGroupNotFound]. Callers such
// as the index treat any fetch error as "this group contributes nothing".
//
// # Validation
//
// Items are validated one at a time at ingestion. An invalid item (a section
// without a title, a vocabulary entry without a term) is dropped and reported
// through the error returned by [Group.Records]; the valid items are still
// returned.
package content
