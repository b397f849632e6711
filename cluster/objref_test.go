package cluster_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/nvaistore-labs/taskmesh/cluster"
)

var _ = Describe("ObjRefTable", func() {
	var t *cluster.ObjRefTable

	BeforeEach(func() {
		t = cluster.NewObjRefTable()
	})

	Describe("Alias", func() {
		It("resolves a chain of aliases to its canonical with path compression", func() {
			t.NewCanonical(1, 0)
			Expect(t.Alias(2, 1)).To(Succeed())
			Expect(t.Alias(3, 2)).To(Succeed())

			canon, err := t.Canonical(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(canon).To(Equal(uint64(1)))

			canon, err = t.Canonical(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(canon).To(Equal(uint64(1)))
		})

		It("rejects a cycle", func() {
			t.NewCanonical(1, 0)
			Expect(t.Alias(2, 1)).To(Succeed())
			err := t.Alias(1, 2)
			Expect(err).To(HaveOccurred())
		})

		It("is a no-op when aliasing to the already-resolved target", func() {
			t.NewCanonical(1, 0)
			Expect(t.Alias(2, 1)).To(Succeed())
			Expect(t.Alias(2, 1)).To(Succeed())
		})

		It("merges a moved canonical's refcount and locations onto its new target", func() {
			t.NewCanonical(1, 0)
			t.NewCanonical(2, 5)
			Expect(t.Increment(2, 0)).To(Succeed())
			_, err := t.MarkReady(2, 100)
			Expect(err).NotTo(HaveOccurred())

			Expect(t.Alias(2, 1)).To(Succeed())

			locs, err := t.Locations(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(locs).To(ConsistOf(uint64(100)))

			Expect(t.Decrement(2, -5)).To(HaveLen(1))
		})
	})

	Describe("readiness", func() {
		It("reports not ready until MarkReady and ready with a location after", func() {
			t.NewCanonical(1, 0)
			ready, err := t.IsReady(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(BeFalse())

			_, err = t.MarkReady(1, 7)
			Expect(err).NotTo(HaveOccurred())

			ready, err = t.IsReady(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(BeTrue())

			locs, err := t.Locations(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(locs).To(Equal([]uint64{7}))
		})

		It("surfaces a task failure as an error from IsReady", func() {
			t.NewCanonical(1, 0)
			t.MarkFailed(1, 42, "boom")
			_, err := t.IsReady(1)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("refcounting GC", func() {
		It("retires a ready ref once its refcount reaches zero", func() {
			t.NewCanonical(1, 1)
			_, err := t.MarkReady(1, 9)
			Expect(err).NotTo(HaveOccurred())

			deallocs, err := t.Decrement(1, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(deallocs).To(HaveLen(1))
			Expect(deallocs[0].Canonical).To(Equal(uint64(1)))
			Expect(deallocs[0].Locations).To(ConsistOf(uint64(9)))
		})

		It("holds a zero-refcount ref until it becomes ready", func() {
			t.NewCanonical(1, 1)
			deallocs, err := t.Decrement(1, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(deallocs).To(BeEmpty())

			_, err = t.MarkReady(1, 9)
			Expect(err).NotTo(HaveOccurred())
			ready, err := t.IsReady(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(ready).To(BeTrue())
		})

		It("cascades retirement through contained refs", func() {
			t.NewCanonical(1, 1) // the container, e.g. a list result
			t.NewCanonical(2, 0) // only reachable via containment
			_, err := t.MarkReady(1, 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = t.MarkReady(2, 1)
			Expect(err).NotTo(HaveOccurred())

			Expect(t.AddContained(1, []uint64{2})).To(Succeed())

			deallocs, err := t.Decrement(1, -1)
			Expect(err).NotTo(HaveOccurred())

			var retired []uint64
			for _, d := range deallocs {
				retired = append(retired, d.Canonical)
			}
			Expect(retired).To(ConsistOf(uint64(1), uint64(2)))
		})

		It("rejects setting contained refs twice", func() {
			t.NewCanonical(1, 1)
			t.NewCanonical(2, 0)
			Expect(t.AddContained(1, []uint64{2})).To(Succeed())
			Expect(t.AddContained(1, []uint64{2})).To(HaveOccurred())
		})

		It("fails lookups against a retired ref", func() {
			t.NewCanonical(1, 1)
			_, err := t.MarkReady(1, 1)
			Expect(err).NotTo(HaveOccurred())
			_, err = t.Decrement(1, -1)
			Expect(err).NotTo(HaveOccurred())

			_, err = t.Canonical(1)
			Expect(err).To(HaveOccurred())
		})
	})
})
