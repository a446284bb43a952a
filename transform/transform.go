// Package transform rewrites module content before a Host hands it to
// the loader, the same role minifiers and optimizing compilers play for
// a build pipeline feeding script tags to a browser.
package transform

// Transform rewrites content and returns the rewritten bytes.
type Transform interface {
	Transform(content []byte) ([]byte, error)
}

// Pipeline chains Transforms, feeding each one's output to the next.
type Pipeline []Transform

// Transform implements Transform by running content through every stage
// in order, stopping at the first error.
func (p Pipeline) Transform(content []byte) ([]byte, error) {
	var err error
	for _, t := range p {
		content, err = t.Transform(content)
		if err != nil {
			return nil, err
		}
	}
	return content, nil
}
