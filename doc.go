// Package marshr reads and writes Ruby's Marshal binary format,
// version 4.8.
//
// Decode parses a document into a Root: an arena of interned symbols
// and objects, plus the Value naming the document's top-level
// contents. Value is a cheap, copyable handle; Nil, Bool, and FixNum
// carry their payload inline, a Symbol is an index into the Root's
// symbol table, and everything else is an index into the Root's
// object table.
//
// Encode writes a Root and Value pair back out. Encoding the Root and
// Value a Decode call just produced reproduces the original bytes
// exactly, including back-references: a symbol or object already
// written once is re-emitted as a back-reference rather than
// duplicated, in the same order the decoder first saw it.
//
// Marshal documents can contain cycles (an Array or Hash that, however
// indirectly, contains itself). The decoder allocates an object's
// ObjectID before reading its contents, so a self-reference encountered
// partway through resolves to the same slot the outer object will end
// up at.
//
// Text decodes a String object's bytes into a Go string, honoring the
// "E" and "encoding" instance variables Ruby attaches to strings whose
// encoding differs from binary. A String with neither ivar is treated
// as binary data, not text, and Text returns an EncodingError for it.
package marshr
