package combin

// Product iterates the Cartesian product of lists with the given sizes.
// The last position varies fastest. A zero size yields no tuples.
//
//	p := combin.NewProduct([]int{2, 3})
//	for p.Next() {
//		use(p.Indices())
//	}
type Product struct {
	sizes   []int
	idx     []int
	started bool
	done    bool
}

// NewProduct returns an iterator positioned before the first tuple.
func NewProduct(sizes []int) *Product {
	p := &Product{sizes: sizes, idx: make([]int, len(sizes))}
	for _, s := range sizes {
		if s <= 0 {
			p.done = true
		}
	}
	return p
}

// Next advances to the next tuple and reports whether one exists.
func (p *Product) Next() bool {
	if p.done {
		return false
	}
	if !p.started {
		p.started = true
		return true
	}
	for i := len(p.idx) - 1; i >= 0; i-- {
		p.idx[i]++
		if p.idx[i] < p.sizes[i] {
			return true
		}
		p.idx[i] = 0
	}
	p.done = true
	return false
}

// Indices returns the current tuple. The slice is reused by Next.
func (p *Product) Indices() []int { return p.idx }

// Size returns the number of tuples the product yields.
func (p *Product) Size() int64 {
	if len(p.sizes) == 0 {
		return 1
	}
	total := int64(1)
	for _, s := range p.sizes {
		if s <= 0 {
			return 0
		}
		total *= int64(s)
	}
	return total
}
