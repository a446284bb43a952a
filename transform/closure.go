package transform

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// CompilationLevel selects one of the Closure Compiler's optimization
// passes.
type CompilationLevel string

const (
	Whitespace            CompilationLevel = "WHITESPACE_ONLY"
	SimpleOptimizations   CompilationLevel = "SIMPLE_OPTIMIZATIONS"
	AdvancedOptimizations CompilationLevel = "ADVANCED_OPTIMIZATIONS"
)

const defaultClosureURL = "http://closure-compiler.appspot.com/compile"

// Closure minifies JavaScript content via the Closure Compiler REST API.
type Closure struct {
	Level CompilationLevel
	URL   string
}

type closureResponse struct {
	CompiledCode string `json:"compiledCode"`
}

func (c *Closure) Transform(content []byte) ([]byte, error) {
	level := c.Level
	if level == "" {
		level = SimpleOptimizations
	}
	endpoint := c.URL
	if endpoint == "" {
		endpoint = defaultClosureURL
	}

	val := url.Values{}
	val.Add("js_code", string(content))
	val.Add("compilation_level", string(level))
	val.Add("output_format", "json")
	val.Add("output_info", "compiled_code")

	resp, err := http.PostForm(endpoint, val)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	cr := new(closureResponse)
	if err := json.NewDecoder(resp.Body).Decode(cr); err != nil {
		return nil, err
	}
	return []byte(cr.CompiledCode), nil
}
