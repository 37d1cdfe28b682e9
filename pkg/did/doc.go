// Package did models did:wba identifiers and their DID documents.
//
// A did:wba identifier embeds the web location of its document:
//
//	did:wba:example.com%3A9527:wba:user:abc123
//	        └ host ┘└port┘ └── path segments ──┘
//
// The %3A between host and port is part of the identifier and is never
// percent-decoded in DID strings. Parse splits an identifier;
// Parts.DocumentURL maps it to the https location of its did.json.
//
// Documents are parsed with ParseDocument, which validates the JSON
// shape against an embedded schema and then the structural invariants:
// every verification method is controlled by the document itself and
// addressable as {did}#{fragment}. Parsed documents are read-only;
// refreshing one means parsing a new document and swapping it in.
//
// WebResolver fetches documents over HTTPS with a bounded timeout and is
// the only networked component in the verification path.
package did
