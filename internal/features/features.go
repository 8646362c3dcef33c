// Package features defines the seven categorical declaration fields consumed by
// the risk classifier and the codec that turns raw request values into the
// ordered feature vector the classifier was trained on.
package features

import "strings"

// Field identifies one categorical declaration attribute.
// The numeric value is the field's column in the feature vector.
type Field int

// Feature vector column order. Changing it requires retraining the classifier.
const (
	Declarant Field = iota
	Operator
	Provenance
	PackageNature
	LoadingPort
	ArrivalTransportMeans
	BankCode
)

// Count is the number of categorical fields.
const Count = 7

var wireNames = [Count]string{
	Declarant:             "CODE_DECLARANT",
	Operator:              "CODE_OPERATEUR",
	Provenance:            "PROVENANCE",
	PackageNature:         "CODE_NATURE_COLIS",
	LoadingPort:           "CODE_PORT_CHARG",
	ArrivalTransportMeans: "IDEN_MOY_TRANSP_ARRIVE",
	BankCode:              "COD_BANQUE",
}

// Fields returns all fields in feature vector order.
func Fields() []Field {
	return []Field{
		Declarant,
		Operator,
		Provenance,
		PackageNature,
		LoadingPort,
		ArrivalTransportMeans,
		BankCode,
	}
}

// String returns the field's wire name, e.g. CODE_DECLARANT.
func (f Field) String() string {
	if !f.Valid() {
		return "UNKNOWN"
	}
	return wireNames[f]
}

// Column returns the field's lower-case storage column name, e.g. code_declarant.
func (f Field) Column() string {
	return strings.ToLower(f.String())
}

// Valid reports whether f is one of the seven declared fields.
func (f Field) Valid() bool {
	return f >= Declarant && f <= BankCode
}

// Lookup resolves a wire name to its field, ignoring case and surrounding whitespace.
func Lookup(name string) (Field, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, f := range Fields() {
		if wireNames[f] == name {
			return f, true
		}
	}
	return 0, false
}
