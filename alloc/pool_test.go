package alloc_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/alloc"
)

// expectWellFormed checks the structural invariants every pool state must
// satisfy: ascending contiguous segments covering [0, capacity) with no
// adjacent free pair.
func expectWellFormed(p *alloc.Pool) {
	GinkgoHelper()

	layout := p.Layout()
	var cursor uint64
	for i, seg := range layout {
		Expect(seg.Base).To(Equal(cursor),
			"segment %d must start where the previous one ended", i)
		Expect(seg.Size).To(BeNumerically(">", 0))
		if i > 0 {
			Expect(layout[i-1].Free && seg.Free).To(BeFalse(),
				"segments %d and %d are both free", i-1, i)
		}
		cursor += seg.Size
	}
	Expect(cursor).To(Equal(p.Capacity()))
}

var _ = Describe("Pool", func() {
	var p *alloc.Pool

	BeforeEach(func() {
		p = alloc.NewPool()
		p.Initialize(1024)
	})

	Describe("Initialize", func() {
		It("should create a single free segment covering the pool", func() {
			layout := p.Layout()
			Expect(layout).To(HaveLen(1))
			Expect(layout[0].Base).To(Equal(uint64(0)))
			Expect(layout[0].Size).To(Equal(uint64(1024)))
			Expect(layout[0].Free).To(BeTrue())
		})

		It("should accept a zero capacity as an empty pool", func() {
			p.Initialize(0)
			Expect(p.Layout()).To(BeEmpty())
			Expect(p.Capacity()).To(Equal(uint64(0)))
			Expect(p.Analysis().Utilization).To(Equal(0.0))
		})

		It("should restart process ids and clear statistics", func() {
			_, err := p.Allocate(100)
			Expect(err).NotTo(HaveOccurred())

			p.Initialize(2048)

			a, err := p.Allocate(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(a.PID).To(Equal(1))
			Expect(p.Stats().Attempts).To(Equal(uint64(1)))
		})
	})

	Describe("Allocate", func() {
		It("should place blocks at ascending addresses under first fit", func() {
			a1, err := p.Allocate(200)
			Expect(err).NotTo(HaveOccurred())
			Expect(a1.PID).To(Equal(1))
			Expect(a1.Address).To(Equal(uint64(0)))

			a2, err := p.Allocate(150)
			Expect(err).NotTo(HaveOccurred())
			Expect(a2.PID).To(Equal(2))
			Expect(a2.Address).To(Equal(uint64(200)))

			expectWellFormed(p)
		})

		It("should reject zero-size requests without scanning", func() {
			_, err := p.Allocate(0)
			Expect(err).To(MatchError(alloc.ErrZeroSize))

			stats := p.Stats()
			Expect(stats.Attempts).To(Equal(uint64(1)))
			Expect(stats.Failures).To(Equal(uint64(1)))
			Expect(p.Layout()).To(HaveLen(1))
		})

		It("should fail when no segment is large enough", func() {
			_, err := p.Allocate(2000)
			Expect(err).To(MatchError(alloc.ErrNoFit))
			Expect(p.Stats().Failures).To(Equal(uint64(1)))
		})

		It("should leave the layout untouched on failure", func() {
			before := p.Layout()
			_, err := p.Allocate(5000)
			Expect(err).To(HaveOccurred())
			Expect(p.Layout()).To(Equal(before))
		})

		It("should not split a segment that fits exactly", func() {
			_, err := p.Allocate(1024)
			Expect(err).NotTo(HaveOccurred())

			layout := p.Layout()
			Expect(layout).To(HaveLen(1))
			Expect(layout[0].Free).To(BeFalse())
			expectWellFormed(p)
		})

		It("should never reuse a process id", func() {
			a1, _ := p.Allocate(100)
			Expect(p.Deallocate(a1.PID)).To(Succeed())

			a2, err := p.Allocate(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(a2.PID).To(Equal(2))
		})
	})

	Describe("Deallocate", func() {
		It("should fail for an unknown pid", func() {
			Expect(p.Deallocate(42)).To(MatchError(alloc.ErrPIDNotFound))
		})

		It("should not touch statistics in either direction", func() {
			a, _ := p.Allocate(100)
			statsBefore := p.Stats()

			Expect(p.Deallocate(a.PID)).To(Succeed())
			Expect(p.Deallocate(a.PID)).To(MatchError(alloc.ErrPIDNotFound))

			Expect(p.Stats()).To(Equal(statsBefore))
		})

		It("should merge the freed block with free neighbors", func() {
			a1, _ := p.Allocate(200)
			a2, _ := p.Allocate(150)
			a3, _ := p.Allocate(100)

			Expect(p.Deallocate(a1.PID)).To(Succeed())
			Expect(p.Deallocate(a3.PID)).To(Succeed())
			Expect(p.Deallocate(a2.PID)).To(Succeed())

			layout := p.Layout()
			Expect(layout).To(HaveLen(1))
			Expect(layout[0].Free).To(BeTrue())
			Expect(layout[0].Size).To(Equal(uint64(1024)))
		})

		It("should fully collapse runs of three or more free segments", func() {
			pids := make([]int, 0, 4)
			for i := 0; i < 4; i++ {
				a, err := p.Allocate(256)
				Expect(err).NotTo(HaveOccurred())
				pids = append(pids, a.PID)
			}
			Expect(p.Layout()).To(HaveLen(4))

			// Free the middle two first so the last free creates a
			// three-segment free run.
			Expect(p.Deallocate(pids[1])).To(Succeed())
			Expect(p.Deallocate(pids[2])).To(Succeed())
			Expect(p.Deallocate(pids[0])).To(Succeed())
			Expect(p.Deallocate(pids[3])).To(Succeed())

			Expect(p.Layout()).To(HaveLen(1))
			expectWellFormed(p)
		})
	})

	Describe("Analysis", func() {
		It("should report occupancy and fragmentation for a partially freed pool", func() {
			a1, _ := p.Allocate(200)
			_, err := p.Allocate(150)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Deallocate(a1.PID)).To(Succeed())

			layout := p.Layout()
			Expect(layout).To(HaveLen(3))
			Expect(layout[0]).To(Equal(alloc.Segment{Base: 0, Size: 200, Free: true, PID: -1}))
			Expect(layout[1]).To(Equal(alloc.Segment{Base: 200, Size: 150, Free: false, PID: 2}))
			Expect(layout[2]).To(Equal(alloc.Segment{Base: 350, Size: 674, Free: true, PID: -1}))

			r := p.Analysis()
			Expect(r.Allocated).To(Equal(uint64(150)))
			Expect(r.Free).To(Equal(uint64(874)))
			Expect(r.LargestFreeBlock).To(Equal(uint64(674)))
			Expect(r.Utilization).To(BeNumerically("~", 14.65, 0.005))
			Expect(r.ExternalFragmentation).To(BeNumerically("~", 22.88, 0.005))
			Expect(r.InternalFragmentation).To(Equal(0.0))
		})

		It("should report zero fragmentation when nothing is free", func() {
			_, err := p.Allocate(1024)
			Expect(err).NotTo(HaveOccurred())

			r := p.Analysis()
			Expect(r.Free).To(Equal(uint64(0)))
			Expect(r.ExternalFragmentation).To(Equal(0.0))
			Expect(r.Utilization).To(Equal(100.0))
		})
	})

	Describe("Stats", func() {
		It("should keep the success rate within [0, 100]", func() {
			Expect(p.Stats().SuccessRate()).To(Equal(0.0))

			p.Allocate(100)
			p.Allocate(0)
			p.Allocate(5000)

			rate := p.Stats().SuccessRate()
			Expect(rate).To(BeNumerically(">=", 0))
			Expect(rate).To(BeNumerically("<=", 100))
			Expect(p.Stats().Attempts).To(Equal(
				p.Stats().Successes + p.Stats().Failures))
		})
	})

	Describe("Reset", func() {
		It("should return to the uninitialized state", func() {
			p.Allocate(100)
			p.SetStrategy(alloc.WorstFit)

			p.Reset()

			Expect(p.Capacity()).To(Equal(uint64(0)))
			Expect(p.Layout()).To(BeEmpty())
			Expect(p.Stats()).To(Equal(alloc.Stats{}))
			Expect(p.Strategy()).To(Equal(alloc.FirstFit))
		})

		It("should be idempotent", func() {
			p.Allocate(100)
			p.Reset()
			p.Reset()
			Expect(p.Capacity()).To(Equal(uint64(0)))
			Expect(p.Layout()).To(BeEmpty())
		})
	})

	Describe("invariants", func() {
		It("should hold through a mixed workload", func() {
			pids := make([]int, 0)
			sizes := []uint64{64, 200, 32, 128, 300, 16}
			for _, size := range sizes {
				if a, err := p.Allocate(size); err == nil {
					pids = append(pids, a.PID)
				}
				expectWellFormed(p)
			}
			for i, pid := range pids {
				if i%2 == 0 {
					Expect(p.Deallocate(pid)).To(Succeed())
					expectWellFormed(p)
				}
			}
			if _, err := p.Allocate(50); err == nil {
				expectWellFormed(p)
			}
		})
	})
})
