package comms

// newMessageStack returns a new Message stack (FIFO) with the given initial size.
func newMessageStack(size int) *messageStack {
	return &messageStack{
		nodes: make([]*Message, size),
		size:  size,
	}
}

// messageStack is a FIFO stack that resizes as needed.
type messageStack struct {
	nodes []*Message
	size  int
	head  int
	tail  int
	count int
}

// Push adds a Message to the stack.
func (q *messageStack) Push(n *Message) {
	if q.head == q.tail && q.count > 0 {
		nodes := make([]*Message, len(q.nodes)+q.size)
		copy(nodes, q.nodes[q.head:])
		copy(nodes[len(q.nodes)-q.head:], q.nodes[:q.head])
		q.head = 0
		q.tail = len(q.nodes)
		q.nodes = nodes
	}
	q.nodes[q.tail] = n
	q.tail = (q.tail + 1) % len(q.nodes)
	q.count++
}

// Pop removes and returns a Message from the stack in first to last order.
func (q *messageStack) Pop() (*Message, bool) {
	if q.count == 0 {
		return nil, false
	}
	node := q.nodes[q.head]
	q.head = (q.head + 1) % len(q.nodes)
	q.count--
	return node, true
}
