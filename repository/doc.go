/*
Package repository persists the datatypes in the key-value store.

The datatype is stored as the JSON meta record with its attributes, array handles and references,
its arrays are stored as the chunks of the first axis rows, and the tag index allows to list
stored datatypes of given type:

	dt/<gid>/meta
	dt/<gid>/arr/<field>/<chunk>
	idx/<tag>/<gid>

Loaded datatypes have their arrays unloaded (lazy). The arrays are loaded explicitly with the LoadArray,
LoadArrays or partially read with the ReadRows.
*/
package repository
