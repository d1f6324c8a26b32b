package widget

// Typing is the handle of a typing placeholder returned by Log.ShowTyping.
type Typing struct {
	log *Log
	id  string
}

// ID returns the node id of the placeholder.
func (t *Typing) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Hide removes the placeholder if it is still in the log. Hiding twice, hiding
// after the log was cleared or hiding a nil handle does nothing.
func (t *Typing) Hide() {
	if t == nil || t.log == nil {
		return
	}
	t.log.remove(t.id)
}
