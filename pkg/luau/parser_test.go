package luau

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moduleSource = `--!strict
-- A module exercising most of the grammar.
local HttpService = game:GetService("HttpService")
local Signal = require(script.Parent.Signal)

export type Callback<T..., R = nil> = (T...) -> R
export type Map<K, V = string> = { [K]: V }
type Private = { read name: string, write count: number, [string]: any }
export type Shape = "circle" | "square" | nil
export type Maybe<T> = T?
export type Pair<A, B = A>= { first: A, second: B }
export type Fn = <T>(value: T, ...number) -> (T, ...string)
export type Mixed = & { a: number } & { b: string }
export type Array<T> = { T }
export type Pack<T... = ...number> = () -> T...
export type Qualified = Signal.Signal<number>
export type Typeof = typeof(setmetatable({}, {}))

type function identity(t)
	return t
end

local Module = {}
Module.__index = Module

local count: number, name = 0, "x" :: string

@native
local function add(a: number, b: number): number
	return a + b
end

function Module.new<T>(value: T, ...: any): typeof(Module)
	local self = setmetatable({ value = value, [1] = true; "tail" }, Module)
	for i = 1, 10, 2 do
		count += i
	end
	for k, v in pairs(self) do
		if k == "value" then
			continue
		elseif v ~= nil then
			break
		else
			print(` + "`{k} = {v}`" + `)
		end
	end
	while count > 0 do count -= 1 end
	repeat count //= 2 until count <= 1
	do local _ = #name .. not true and -count or 2 ^ 3 end
	local msg = if count > 1 then "many" elseif count == 1 then "one" else "none"
	print "called"
	print { msg }
	self:method(HttpService:GenerateGUID(false))
	local continue = 1
	continue += 1
	return self
end

function Module:method(...)
	local args = { ... }
	return #args
end;

return Module
`

func TestParse_RoundTrip(t *testing.T) {
	sources := []string{
		moduleSource,
		"",
		"\n\n-- only a comment\n",
		"return require(script.Parent._Index[\"acme_foo@1.0.0\"][\"foo\"])",
		"return require(script.Parent._Index[\"acme_foo@1.0.0\"][\"foo\"])\r\n",
		"local REQUIRED_MODULE = require(script.Parent.Foo)\nexport type A = REQUIRED_MODULE.A\nreturn REQUIRED_MODULE\n",
	}

	for _, src := range sources {
		chunk, err := Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, src, chunk.String())
	}
}

func TestParse_TopLevelStatements(t *testing.T) {
	chunk, err := Parse(moduleSource)
	require.NoError(t, err)

	var exported []string

	var private []string

	for _, stmt := range chunk.Stmts {
		ts, ok := stmt.(*TypeStmt)
		if !ok {
			continue
		}

		if !ts.Exported {
			private = append(private, ts.Name.Text)
			continue
		}

		exported = append(exported, ts.Name.Text)
	}

	assert.Equal(t, []string{
		"Callback", "Map", "Shape", "Maybe", "Pair", "Fn", "Mixed", "Array", "Pack", "Qualified", "Typeof",
	}, exported)
	assert.Equal(t, []string{"Private", "identity"}, private)

	last, ok := chunk.Stmts[len(chunk.Stmts)-1].(*ReturnStmt)
	require.True(t, ok)
	require.Len(t, last.Values, 1)
	assert.Equal(t, "Module", chunk.TrimmedText(last.Values[0]))
}

func findType(t *testing.T, chunk *Chunk, name string) *TypeStmt {
	t.Helper()

	for _, stmt := range chunk.Stmts {
		if ts, ok := stmt.(*TypeStmt); ok && ts.Name.Text == name {
			return ts
		}
	}

	t.Fatalf("type %s not found", name)

	return nil
}

func TestParse_Generics(t *testing.T) {
	chunk, err := Parse(moduleSource)
	require.NoError(t, err)

	callback := findType(t, chunk, "Callback")
	require.Len(t, callback.Generics, 2)
	assert.Equal(t, "T", callback.Generics[0].Name.Text)
	assert.True(t, callback.Generics[0].Pack)
	assert.Nil(t, callback.Generics[0].Default)
	assert.Equal(t, "R", callback.Generics[1].Name.Text)
	require.NotNil(t, callback.Generics[1].Default)
	assert.Equal(t, "nil", chunk.TrimmedText(callback.Generics[1].Default))
	assert.IsType(t, &FunctionType{}, callback.Value)

	pair := findType(t, chunk, "Pair")
	require.Len(t, pair.Generics, 2)
	assert.Equal(t, "A", chunk.TrimmedText(pair.Generics[1].Default))
	assert.Equal(t, "{ first: A, second: B }", chunk.TrimmedText(pair.Value))

	pack := findType(t, chunk, "Pack")
	require.Len(t, pack.Generics, 1)
	assert.True(t, pack.Generics[0].Pack)
	assert.IsType(t, &VariadicType{}, pack.Generics[0].Default)

	identity := findType(t, chunk, "identity")
	assert.True(t, identity.Function)
	assert.Nil(t, identity.Value)
}

func TestParse_SplitsGreaterEqual(t *testing.T) {
	src := "export type Pair<A, B = A>= { first: A }\n"

	chunk, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, src, chunk.String())

	ts := chunk.Stmts[0].(*TypeStmt)
	assert.Equal(t, "{ first: A }", chunk.TrimmedText(ts.Value))
	assert.Equal(t, "A", chunk.TrimmedText(ts.Generics[1].Default))
}

func TestParse_TypeShapes(t *testing.T) {
	chunk, err := Parse(moduleSource)
	require.NoError(t, err)

	tests := []struct {
		name string
		want Type
	}{
		{"Map", &TableType{}},
		{"Shape", &UnionType{}},
		{"Maybe", &OptionalType{}},
		{"Fn", &FunctionType{}},
		{"Mixed", &UnionType{}},
		{"Array", &TableType{}},
		{"Qualified", &NamedType{}},
		{"Typeof", &TypeofType{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, findType(t, chunk, tt.name).Value)
		})
	}

	mixed := findType(t, chunk, "Mixed").Value.(*UnionType)
	assert.True(t, mixed.Intersection)
	assert.Len(t, mixed.Parts, 2)

	qualified := findType(t, chunk, "Qualified").Value.(*NamedType)
	require.NotNil(t, qualified.Module)
	assert.Equal(t, "Signal", qualified.Module.Text)
	assert.Equal(t, "Signal", qualified.Name.Text)
	assert.Len(t, qualified.Params, 1)

	fn := findType(t, chunk, "Fn").Value.(*FunctionType)
	require.Len(t, fn.Generics, 1)
	assert.Len(t, fn.Params, 2)
	assert.IsType(t, &PackType{}, fn.Returns)
}

func TestParse_RequireExpression(t *testing.T) {
	chunk, err := Parse(`return require(script.Parent._Index["acme_foo@1.0.0"]["foo"])`)
	require.NoError(t, err)
	require.Len(t, chunk.Stmts, 1)

	ret := chunk.Stmts[0].(*ReturnStmt)
	require.Len(t, ret.Values, 1)

	call, ok := ret.Values[0].(*CallExpr)
	require.True(t, ok)
	assert.Nil(t, call.Method)
	assert.Equal(t, ArgsParens, call.Style)
	assert.Equal(t, "require", chunk.TrimmedText(call.Callee))
	require.Len(t, call.Args, 1)

	outer, ok := call.Args[0].(*IndexExpr)
	require.True(t, ok)
	key, ok := outer.Key.(*StringExpr)
	require.True(t, ok)
	assert.Equal(t, `"foo"`, key.Value.Text)

	inner := outer.Object.(*IndexExpr)
	assert.Equal(t, `script.Parent._Index["acme_foo@1.0.0"]`, chunk.TrimmedText(inner))

	index := inner.Object.(*IndexExpr)
	assert.Equal(t, "_Index", index.Field.Text)
	assert.Nil(t, index.Key)
}

func TestParse_CallStyles(t *testing.T) {
	tests := []struct {
		src    string
		style  ArgStyle
		method bool
	}{
		{`return require "x"`, ArgsString, false},
		{`return require { x }`, ArgsTable, false},
		{`return script:FindFirstChild("x")`, ArgsParens, true},
		{`return require(x)`, ArgsParens, false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			chunk, err := Parse(tt.src)
			require.NoError(t, err)

			call := chunk.Stmts[0].(*ReturnStmt).Values[0].(*CallExpr)
			assert.Equal(t, tt.style, call.Style)
			assert.Equal(t, tt.method, call.Method != nil)
		})
	}
}

func TestParse_AttributeLists(t *testing.T) {
	sources := []string{
		"@[deprecated]\nlocal function old() end\n",
		"@[native, checked]\nfunction M.fast(x) return x end\n",
		"@[deprecated { use = \"new\" }] @native\nlocal function old() end\n",
		"@[deprecated(\"use new\"), checked]\nlocal function old() end\n",
		"local f = @[native] function() end\n",
	}

	for _, src := range sources {
		chunk, err := Parse(src)
		require.NoError(t, err, src)
		assert.Equal(t, src, chunk.String())
	}

	_, err := Parse("@[]\nlocal function f() end")
	require.NoError(t, err)

	_, err = Parse("@[native\nlocal function f() end")
	require.Error(t, err)
}

func TestParse_ExplicitTypeInstantiation(t *testing.T) {
	tests := []struct {
		src    string
		method bool
	}{
		{"return f<<number>>(1)", false},
		{"return obj:m<<string, number>>(x)", true},
		{"return f<<Array<number>>>(1)", false},
		{"return f<<number>>\"x\"", false},
		{"return require<<any>>(script.Parent.Foo)", false},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			chunk, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.src, chunk.String())

			call, ok := chunk.Stmts[0].(*ReturnStmt).Values[0].(*CallExpr)
			require.True(t, ok)
			assert.Equal(t, tt.method, call.Method != nil)
		})
	}

	_, err := Parse("f<<number>(1)")
	require.Error(t, err)
}

func TestParse_TriviaHelpers(t *testing.T) {
	src := "-- link\nreturn require(script.Parent.Foo) -- keep\n\n"

	chunk, err := Parse(src)
	require.NoError(t, err)

	ret := chunk.Stmts[0]
	assert.Equal(t, "-- link\n", chunk.Leading(ret))
	assert.Equal(t, "return require(script.Parent.Foo)", chunk.TrimmedText(ret))
	assert.Equal(t, " -- keep\n\n", chunk.Tail())
	assert.Equal(t, src, chunk.Text(ret)+"\n")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		line    int
		column  int
		message string
	}{
		{"missing name", "local = 1", 1, 7, "expected identifier"},
		{"statement after return", "return 1\nprint(x)", 2, 1, "expected end of block after return"},
		{"unclosed function", "local function f()\n", 2, 1, "expected 'end'"},
		{"bare expression", "x", 1, 2, "expected statement"},
		{"bad type", "export type T = ", 1, 17, "expected type"},
		{"generic function without arrow", "type T = <A>(A)", 1, 16, "expected '->'"},
		{"stray end", "end", 1, 1, "expected end of file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.line, syntaxErr.Line, "line")
			assert.Equal(t, tt.column, syntaxErr.Column, "column")
			assert.Contains(t, syntaxErr.Message, tt.message)
		})
	}
}

func TestParse_ContextualKeywords(t *testing.T) {
	src := "local type = 1\ntype = type + 1\nlocal export = {}\nexport.x = type\nlocal continue = 2\nreturn continue\n"

	chunk, err := Parse(src)
	require.NoError(t, err)

	for _, stmt := range chunk.Stmts {
		_, isType := stmt.(*TypeStmt)
		assert.False(t, isType, chunk.TrimmedText(stmt))
	}
}

func TestWalkType_Order(t *testing.T) {
	chunk, err := Parse("type T = { a: Foo<Bar>, [Baz]: (Qux) -> Quux? }")
	require.NoError(t, err)

	var names []string

	WalkType(chunk.Stmts[0].(*TypeStmt).Value, func(ty Type) bool {
		if named, ok := ty.(*NamedType); ok {
			names = append(names, named.Name.Text)
		}

		return true
	})

	assert.Equal(t, []string{"Foo", "Bar", "Baz", "Qux", "Quux"}, names)
}

func TestWalkType_Prune(t *testing.T) {
	chunk, err := Parse("type T = Foo<Bar<Baz>>")
	require.NoError(t, err)

	var visited int

	WalkType(chunk.Stmts[0].(*TypeStmt).Value, func(ty Type) bool {
		visited++
		return false
	})

	assert.Equal(t, 1, visited)
}
