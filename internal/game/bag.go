package game

import (
	"math/rand"
	"time"
)

// Bag deals the seven piece kinds in a freshly shuffled order and reshuffles
// as soon as the last one is handed out, so Peek always has a kind to show
// for the next-piece preview.
type Bag struct {
	kinds []int
	rng   *rand.Rand
}

func NewBag() *Bag {
	return newBag(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newBag(rng *rand.Rand) *Bag {
	bag := &Bag{
		kinds: make([]int, 0, 7),
		rng:   rng,
	}
	bag.refill()

	return bag
}

// Next removes and returns the next kind, refilling eagerly when the bag
// runs dry.
func (that *Bag) Next() int {
	kind := that.kinds[0]
	that.kinds = that.kinds[1:]

	if len(that.kinds) == 0 {
		that.refill()
	}

	return kind
}

// Peek returns the kind Next will deal, without consuming it.
func (that *Bag) Peek() int {
	return that.kinds[0]
}

func (that *Bag) refill() {
	kinds := []int{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}
	that.rng.Shuffle(len(kinds), func(i, j int) {
		kinds[i], kinds[j] = kinds[j], kinds[i]
	})

	that.kinds = kinds
}
