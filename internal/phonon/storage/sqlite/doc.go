// Package sqlite persists computed thermal-property runs so repeated
// analyses over a material set can be compared later without recomputing.
//
// Schema is managed with embedded golang-migrate migrations; see
// migrations/.
package sqlite
