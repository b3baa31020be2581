package admission

// reportInternalError reports an internal controller error.
//
// Internal errors are failures outside of operations, such as a panic
// escaping the executor or a second attempt to settle a future.
// If no handler is registered, the error is silently ignored.
func (c *Controller) reportInternalError(e error) {
	if c.opts.OnInternalError != nil {
		c.opts.OnInternalError(e)
	}
}

// reportJobError reports the terminal error of a job.
//
// It is called once per failed job, after retries are exhausted or on a
// fatal error. The future carries the same error; the handler is an extra
// observation point, not a substitute for it.
func (c *Controller) reportJobError(err error) {
	if c.opts.OnJobError != nil {
		c.opts.OnJobError(err)
	}
}
