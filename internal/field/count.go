package field

// OpCounts tallies field operations while installed with CountOps.
type OpCounts struct {
	Add, Sub, Mul, Square, Select, Invert int
}

type op int

const (
	opAdd op = iota
	opSub
	opMul
	opSquare
	opSelect
	opInvert
)

var counter *OpCounts

// CountOps makes every subsequent field operation increment c until the
// returned function is called. It is a test hook: the counter is shared by
// all goroutines and updates are not synchronized.
func CountOps(c *OpCounts) (restore func()) {
	prev := counter
	counter = c
	return func() { counter = prev }
}

func count(o op) {
	c := counter
	if c == nil {
		return
	}
	switch o {
	case opAdd:
		c.Add++
	case opSub:
		c.Sub++
	case opMul:
		c.Mul++
	case opSquare:
		c.Square++
	case opSelect:
		c.Select++
	case opInvert:
		c.Invert++
	}
}
