package message

import (
	"github.com/itchyny/gojq"

	"github.com/afossey/message-schema-plugin/pkg/pointer"
)

// lookupQuery follows RFC 6901 over decoded JSON: object members by name,
// array elements by canonical decimal index. Anything else is an error,
// which distinguishes a missing location from an explicit null.
const lookupQuery = `
def step($s):
  if type == "object" then
    if has($s) then .[$s] else error("missing") end
  elif type == "array" and ($s | test("^(0|[1-9][0-9]*)$")) and ($s | tonumber) < length then
    .[$s | tonumber]
  else
    error("missing")
  end;
reduce $path[] as $s (.; step($s))
`

var lookupCode = mustCompile(lookupQuery)

func mustCompile(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}
	code, err := gojq.Compile(q, gojq.WithVariables([]string{"$path"}))
	if err != nil {
		panic(err)
	}
	return code
}

// Lookup evaluates p against a document decoded with encoding/json.
func Lookup(doc any, p pointer.Path) (any, bool) {
	segs := p.Segments()
	path := make([]any, len(segs))
	for i, s := range segs {
		path[i] = s
	}

	iter := lookupCode.Run(doc, path)
	v, ok := iter.Next()
	if !ok {
		return nil, false
	}
	if _, isErr := v.(error); isErr {
		return nil, false
	}
	return v, true
}
