package syntax

// BlockState is the single bit of cross-line context: whether the end of a
// line sits inside an open multi-line comment. The state for line 0 is
// always OutsideComment.
type BlockState int

const (
	OutsideComment BlockState = iota
	InsideComment
)

func (s BlockState) String() string {
	switch s {
	case OutsideComment:
		return "outside-comment"
	case InsideComment:
		return "inside-comment"
	default:
		return "unknown"
	}
}
