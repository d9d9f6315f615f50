//go:build !js_eval

package controllable

// NewJSEvaluator returns nil unless the binary is built with the js_eval tag.
// Config.Options reports that case as an error.
func NewJSEvaluator(...JSEvaluatorOption) Evaluator {
	return nil
}

func jsEvaluatorAvailable() bool {
	return false
}

func isJSEvaluator(Evaluator) bool {
	return false
}
