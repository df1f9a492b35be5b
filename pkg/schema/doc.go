// Package schema loads field catalogs that give Keeko field keys a name
// and an expected kind.
//
// A catalog is a YAML document:
//
//	name: thermostat
//	fields:
//	  - name: temperature
//	    kind: f32
//	    required: true
//	  - name: label
//	    kind: string
//	  - name: legacy_mode
//	    kind: u8
//	    key: 0x00001001
//
// The same catalog may be written in TOML, with fields as [[fields]]
// tables; Load picks the format from the file extension.
//
// A field's key defaults to wire.KeyOf(name). Catalogs are local metadata
// for tools and applications; nothing about them travels on the wire.
package schema
