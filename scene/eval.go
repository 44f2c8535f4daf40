package scene

// EvalContext owns the evaluation clock of a scene document. Operations
// that need the document at a different frame time receive the context
// explicitly instead of mutating the document behind the caller's back.
type EvalContext struct {
	sc *Scene
}

// Create an evaluation context for a validated document.
func NewEvalContext(sc *Scene) *EvalContext {
	return &EvalContext{sc: sc}
}

// The document driven by this context.
func (ec *EvalContext) Scene() *Scene {
	return ec.sc
}

// The frame the document is currently evaluated at.
func (ec *EvalContext) Frame() float32 {
	frame, _ := ec.sc.CurrentFrame()
	return frame
}

// Move the evaluation clock to the given frame time.
func (ec *EvalContext) SetFrame(frame, subframe float32) {
	ec.sc.SetFrame(frame, subframe)
}

// WithFrame evaluates the document at the given frame, invokes body and
// restores the previous frame time. The restore happens even when body
// fails or panics.
func (ec *EvalContext) WithFrame(frame float32, body func() error) error {
	prevFrame, prevSubframe := ec.sc.CurrentFrame()
	ec.sc.SetFrame(frame, 0)
	defer ec.sc.SetFrame(prevFrame, prevSubframe)

	return body()
}
