package aspect

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var englishType = reflect.TypeFor[english]()

func TestAll_MatchesEverything(t *testing.T) {
	pc := All()
	assert.True(t, pc.MatchesType(englishType))
	assert.True(t, pc.MatchesType(nil))
	assert.True(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
}

func TestNameMatch_Glob(t *testing.T) {
	pc, err := NameMatch("Gre*")
	require.NoError(t, err)

	assert.True(t, pc.MatchesType(englishType))
	assert.True(t, pc.MatchesMethod(methodOf(t, "Greet"), englishType))
	assert.False(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
}

func TestNameMatch_AnyPattern(t *testing.T) {
	pc, err := NameMatch("Nope", "Clo{se,ne}")
	require.NoError(t, err)
	assert.True(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
}

func TestNameMatch_InvalidPattern(t *testing.T) {
	_, err := NameMatch("[")
	require.Error(t, err)

	_, err = NameMatch()
	require.Error(t, err)
}

func TestRegexp_AnchoredOnFullName(t *testing.T) {
	pc, err := Regexp(`.*\.greeter\.Greet`)
	require.NoError(t, err)
	assert.True(t, pc.MatchesMethod(methodOf(t, "Greet"), englishType))
	assert.False(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))

	bare, err := Regexp("Greet")
	require.NoError(t, err)
	assert.False(t, bare.MatchesMethod(methodOf(t, "Greet"), englishType), "pattern must match the whole name")
}

func TestRegexp_Invalid(t *testing.T) {
	_, err := Regexp("(")
	require.Error(t, err)
}

func TestExpr_MatchesOnSignature(t *testing.T) {
	pc, err := Expr(`method == "Greet" && numIn == 1 && numOut == 1`)
	require.NoError(t, err)

	assert.True(t, pc.MatchesMethod(methodOf(t, "Greet"), englishType))
	assert.False(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
}

func TestExpr_Target(t *testing.T) {
	pc := MustExpr(`target endsWith ".english"`)
	assert.True(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
	assert.False(t, pc.MatchesMethod(methodOf(t, "Close"), reflect.TypeFor[int]()))
}

func TestExpr_CompileErrors(t *testing.T) {
	_, err := Expr(`method +`)
	require.Error(t, err)

	_, err = Expr(`numIn`)
	require.Error(t, err, "non-boolean expression")

	assert.Panics(t, func() { MustExpr(`unknown == 1`) })
}

func TestTargetType_ExactAndInterface(t *testing.T) {
	byStruct := TargetType[english]()
	assert.True(t, byStruct.MatchesType(englishType))
	assert.False(t, byStruct.MatchesType(reflect.TypeFor[int]()))
	assert.False(t, byStruct.MatchesType(nil))

	byIface := TargetType[greeter]()
	assert.True(t, byIface.MatchesType(englishType))
	assert.True(t, byIface.MatchesMethod(methodOf(t, "Greet"), englishType))
	assert.False(t, byIface.MatchesMethod(methodOf(t, "Greet"), reflect.TypeFor[string]()))
}

func TestIntersect(t *testing.T) {
	name, err := NameMatch("Greet")
	require.NoError(t, err)
	pc := Intersect(TargetType[english](), name)

	assert.True(t, pc.MatchesType(englishType))
	assert.True(t, pc.MatchesMethod(methodOf(t, "Greet"), englishType))
	assert.False(t, pc.MatchesMethod(methodOf(t, "Close"), englishType))
	assert.False(t, pc.MatchesType(reflect.TypeFor[int]()))
}

func TestMethod_FullName(t *testing.T) {
	m := methodOf(t, "Greet")
	assert.Equal(t, "github.com/dusk-indust/aspectwrap/aspect.greeter.Greet", m.FullName())
	assert.Equal(t, "Greet", Method{Name: "Greet"}.FullName())
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "<nil>", TypeName(nil))
	assert.Equal(t, "int", TypeName(reflect.TypeFor[int]()))
	assert.Equal(t, "*github.com/dusk-indust/aspectwrap/aspect.english", TypeName(reflect.TypeFor[*english]()))
	assert.Equal(t, "[]string", TypeName(reflect.TypeFor[[]string]()))
	assert.Equal(t, "aspect.english", ShortName(TypeName(englishType)))
}
