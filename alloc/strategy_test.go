package alloc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/alloc"
)

// carveHoles builds a pool whose free segments have the given sizes in
// address order, separated by single-byte allocated guards so they cannot
// coalesce. It returns the base address of each hole.
func carveHoles(p *alloc.Pool, holes ...uint64) []uint64 {
	GinkgoHelper()

	var total uint64
	for _, h := range holes {
		total += h + 1
	}
	p.Initialize(total)

	// Allocate everything in order, then free the hole-sized blocks. The
	// 1-byte guards stay allocated.
	holePIDs := make([]int, 0, len(holes))
	bases := make([]uint64, 0, len(holes))
	for _, h := range holes {
		a, err := p.Allocate(h)
		Expect(err).NotTo(HaveOccurred())
		holePIDs = append(holePIDs, a.PID)
		bases = append(bases, a.Address)

		_, err = p.Allocate(1)
		Expect(err).NotTo(HaveOccurred())
	}
	for _, pid := range holePIDs {
		Expect(p.Deallocate(pid)).To(Succeed())
	}

	return bases
}

var _ = Describe("Placement strategies", func() {
	var p *alloc.Pool

	BeforeEach(func() {
		p = alloc.NewPool()
	})

	Describe("FirstFit", func() {
		It("should pick the lowest-address hole that fits", func() {
			bases := carveHoles(p, 100, 500, 200)
			p.SetStrategy(alloc.FirstFit)

			a, err := p.Allocate(150)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Address).To(Equal(bases[1]))
		})
	})

	Describe("BestFit", func() {
		It("should pick the smallest hole that fits", func() {
			bases := carveHoles(p, 500, 120, 300)
			p.SetStrategy(alloc.BestFit)

			a, err := p.Allocate(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Address).To(Equal(bases[1]))
		})

		It("should break ties toward the lower address", func() {
			bases := carveHoles(p, 500, 300, 300)
			p.SetStrategy(alloc.BestFit)

			a, err := p.Allocate(300)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Address).To(Equal(bases[1]),
				"the first 300-byte hole must win the tie")
		})
	})

	Describe("WorstFit", func() {
		It("should pick the largest hole", func() {
			bases := carveHoles(p, 200, 800, 400)
			p.SetStrategy(alloc.WorstFit)

			a, err := p.Allocate(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Address).To(Equal(bases[1]))
		})

		It("should break ties toward the lower address", func() {
			bases := carveHoles(p, 400, 400, 100)
			p.SetStrategy(alloc.WorstFit)

			a, err := p.Allocate(50)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.Address).To(Equal(bases[0]))
		})
	})

	Describe("ParseStrategy", func() {
		It("should accept long names and short aliases", func() {
			for name, want := range map[string]alloc.Strategy{
				"first_fit": alloc.FirstFit,
				"first":     alloc.FirstFit,
				"ff":        alloc.FirstFit,
				"best_fit":  alloc.BestFit,
				"bf":        alloc.BestFit,
				"worst_fit": alloc.WorstFit,
				"wf":        alloc.WorstFit,
			} {
				s, err := alloc.ParseStrategy(name)
				Expect(err).NotTo(HaveOccurred())
				Expect(s).To(Equal(want))
			}
		})

		It("should reject unknown names", func() {
			_, err := alloc.ParseStrategy("next_fit")
			Expect(err).To(HaveOccurred())
		})
	})
})
