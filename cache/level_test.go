package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/memsim/cache"
)

var _ = Describe("Level", func() {
	Describe("NewLevel", func() {
		It("should reject a zero block size", func() {
			_, err := cache.NewLevel(1024, 0)
			Expect(err).To(MatchError(cache.ErrZeroBlockSize))
		})

		It("should reject a capacity smaller than one block", func() {
			_, err := cache.NewLevel(16, 32)
			Expect(err).To(MatchError(cache.ErrTooSmall))
		})

		It("should floor the block count", func() {
			l, err := cache.NewLevel(100, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.NumBlocks()).To(Equal(uint64(3)))
		})

		It("should start with every block invalid", func() {
			l, err := cache.NewLevel(1024, 32)
			Expect(err).NotTo(HaveOccurred())
			Expect(l.ValidBlocks()).To(Equal(uint64(0)))
		})
	})

	Describe("Access", func() {
		var l *cache.Level

		BeforeEach(func() {
			// 1024 bytes, 32-byte lines: 32 blocks.
			var err error
			l, err = cache.NewLevel(1024, 32)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should miss cold and hit warm", func() {
			Expect(l.Access(0)).To(BeFalse())
			Expect(l.Access(0)).To(BeTrue())

			m := l.Metrics()
			Expect(m.Total).To(Equal(uint64(2)))
			Expect(m.Hits).To(Equal(uint64(1)))
			Expect(m.Misses).To(Equal(uint64(1)))
		})

		It("should hit anywhere within a cached line", func() {
			Expect(l.Access(64)).To(BeFalse())
			Expect(l.Access(95)).To(BeTrue())
		})

		It("should miss on a tag conflict in the same slot", func() {
			Expect(l.Access(0)).To(BeFalse())
			// 1024 maps to index 0 with tag 1.
			Expect(l.Access(1024)).To(BeFalse())
			Expect(l.Access(1024)).To(BeTrue())
			Expect(l.Access(0)).To(BeFalse())
		})

		It("should not evict when filling an invalid slot", func() {
			Expect(l.Access(0)).To(BeFalse())
			Expect(l.Access(32)).To(BeFalse())
			Expect(l.ValidBlocks()).To(Equal(uint64(2)))
		})

		It("should evict the earliest-filled block on a conflict, even in another slot", func() {
			// Fill index 1 first, then index 0. The fill queue is [1, 0].
			Expect(l.Access(32)).To(BeFalse())
			Expect(l.Access(0)).To(BeFalse())

			// Conflict in slot 0 (tag 1). The FIFO front is index 1, so
			// the unrelated line at index 1 is invalidated.
			Expect(l.Access(1024)).To(BeFalse())

			Expect(l.Access(32)).To(BeFalse(),
				"the line for address 32 must have been evicted")
			Expect(l.Access(1024)).To(BeTrue(),
				"the conflicting fill must still be resident")
		})

		It("should tolerate duplicate indices in the fill queue", func() {
			// Queue becomes [1, 0]; the conflict below pops index 1 and
			// pushes index 0 again, leaving [0, 0].
			Expect(l.Access(32)).To(BeFalse())
			Expect(l.Access(0)).To(BeFalse())
			Expect(l.Access(1024)).To(BeFalse())

			// Another conflict in slot 0 pops the first duplicate and
			// refills the slot; the level keeps working.
			Expect(l.Access(2048)).To(BeFalse())
			Expect(l.Access(2048)).To(BeTrue())
			Expect(l.ValidBlocks()).To(Equal(uint64(1)))
		})
	})

	Describe("Flush", func() {
		var l *cache.Level

		BeforeEach(func() {
			var err error
			l, err = cache.NewLevel(1024, 32)
			Expect(err).NotTo(HaveOccurred())
			l.Access(0)
			l.Access(32)
		})

		It("should invalidate every block but keep the metrics", func() {
			before := l.Metrics()

			l.Flush()

			Expect(l.ValidBlocks()).To(Equal(uint64(0)))
			Expect(l.Metrics()).To(Equal(before))
			Expect(l.Access(0)).To(BeFalse(), "flushed lines must miss")
		})

		It("should be idempotent", func() {
			l.Flush()
			metrics := l.Metrics()
			valid := l.ValidBlocks()

			l.Flush()

			Expect(l.Metrics()).To(Equal(metrics))
			Expect(l.ValidBlocks()).To(Equal(valid))
		})
	})

	Describe("Metrics", func() {
		It("should report zero ratios before any access", func() {
			m := cache.Metrics{}
			Expect(m.HitRatio()).To(Equal(0.0))
			Expect(m.MissRatio()).To(Equal(0.0))
		})

		It("should have hit and miss ratios summing to 100", func() {
			l, err := cache.NewLevel(1024, 32)
			Expect(err).NotTo(HaveOccurred())

			for _, addr := range []uint64{0, 0, 32, 1024, 0, 64, 64} {
				l.Access(addr)
			}

			m := l.Metrics()
			Expect(m.HitRatio() + m.MissRatio()).To(BeNumerically("~", 100, 1e-9))
		})
	})
})
