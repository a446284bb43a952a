package transform

import (
	"bytes"
	"regexp"

	"bitbucket.org/maxhauser/jsmin"
)

// reLicenseBanner matches a block comment jsmin would otherwise discard
// but that a minification pass shouldn't drop: a "/*!" banner or a block
// containing an "@license" tag, the two conventions bundlers commonly
// honor for license preservation.
var reLicenseBanner = regexp.MustCompile(`/\*(?:!|[^*]*@license)[\s\S]*?\*/`)

// JSMin strips comments and unnecessary whitespace from JavaScript
// content using Douglas Crockford's jsmin algorithm, discarding license
// banners along with every other comment.
var JSMin Transform = NewJSMin()

// JSMinOption configures a jsmin-backed Transform.
type JSMinOption func(*jsminTransform)

// PreserveLicenseBanners keeps "/*! ... */" and "@license"-tagged block
// comments in the minified output instead of letting jsmin strip them
// along with everything else.
func PreserveLicenseBanners() JSMinOption {
	return func(j *jsminTransform) { j.preserveLicense = true }
}

// NewJSMin returns a jsmin-backed Transform configured by opts.
func NewJSMin(opts ...JSMinOption) Transform {
	j := &jsminTransform{}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

type jsminTransform struct {
	preserveLicense bool
}

func (j *jsminTransform) Transform(content []byte) ([]byte, error) {
	var banners [][]byte
	if j.preserveLicense {
		banners = reLicenseBanner.FindAll(content, -1)
	}

	out := new(bytes.Buffer)
	jsmin.Run(bytes.NewBuffer(content), out)

	if len(banners) == 0 {
		return out.Bytes(), nil
	}

	result := new(bytes.Buffer)
	for _, b := range banners {
		result.Write(b)
		result.WriteByte('\n')
	}
	result.Write(out.Bytes())
	return result.Bytes(), nil
}
