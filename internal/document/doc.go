// Package document holds MCP results as ordered JSON values.
//
// Objects keep the key order the server sent, so every output format can
// print fields in that order. Numbers decode as json.Number and are written
// back unchanged.
package document
