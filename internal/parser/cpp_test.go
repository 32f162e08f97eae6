package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pramethg/CodeMapVisualizer/internal/document"
)

func TestCpp_ClassesAndFunctions(t *testing.T) {
	doc := parseCpp([]byte(`#include <string>

class Vector {
public:
    double x;
};

int magnitude(Vector v) {
    return 0;
}

void reset() {
}
`))
	assert.Equal(t, document.KindCpp, doc.Kind)
	assert.Equal(t, []string{"Vector"}, doc.Classes)
	assert.Equal(t, []string{"magnitude", "reset"}, doc.Functions)

	assert.Equal(t, "class Vector", doc.Signatures["Vector"])
	assert.Equal(t, "int magnitude(Vector v)", doc.Signatures["magnitude"])
	assert.Equal(t, "void reset()", doc.Signatures["reset"])

	assert.Equal(t, 3, doc.Locations["Vector"])
	assert.Equal(t, 8, doc.Locations["magnitude"])
	assert.Equal(t, 12, doc.Locations["reset"])
}

func TestCpp_NonPrimitiveReturnTypesIgnored(t *testing.T) {
	// The function pass is restricted to a fixed primitive set to bound
	// false positives.
	doc := parseCpp([]byte(`Vector cross(Vector a, Vector b) {
    return a;
}

double dot(Vector a, Vector b) {
    return 0;
}
`))
	assert.Equal(t, []string{"dot"}, doc.Functions)
	assert.NotContains(t, doc.Signatures, "cross")
}

func TestCpp_MultiLineSignaturesUnsupported(t *testing.T) {
	doc := parseCpp([]byte(`int sum(
    int a,
    int b) {
    return a + b;
}
`))
	assert.Empty(t, doc.Functions)
}

func TestCpp_NoDefinitionsCaptured(t *testing.T) {
	doc := parseCpp([]byte(`void noop() {
}
`))
	assert.Empty(t, doc.Definitions)
	assert.Nil(t, doc.Dependencies)
}
