package camt

import "bytes"

// Namespaces for the CAMT.053 schema versions seen in the wild. UBS ships
// .001.04, Wise ships .001.10; .001.02 is the default when no version
// marker is found.
const (
	NamespaceV02 = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"
	NamespaceV04 = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.04"
	NamespaceV08 = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.08"
	NamespaceV10 = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.10"
)

// versionMarkers is checked in priority order; the first substring found in
// the raw file selects the namespace.
var versionMarkers = []struct {
	marker    string
	namespace string
}{
	{"camt.053.001.10", NamespaceV10},
	{"camt.053.001.04", NamespaceV04},
	{"camt.053.001.08", NamespaceV08},
}

// DetectNamespace scans raw file content for a schema version marker and
// returns the matching namespace. Never fails: unknown content falls back
// to the .001.02 namespace.
func DetectNamespace(data []byte) string {
	for _, vm := range versionMarkers {
		if bytes.Contains(data, []byte(vm.marker)) {
			return vm.namespace
		}
	}
	return NamespaceV02
}
