package paste_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/flanksource/wordpaste/paste"
)

var _ = Describe("Pipeline", func() {
	var p *paste.Pipeline

	BeforeEach(func() {
		p = &paste.Pipeline{}
	})

	It("runs listeners by priority, then registration order", func() {
		var order []string
		p.On(paste.PriorityDefault, func(*paste.Event) { order = append(order, "default-1") })
		p.On(paste.PriorityCompat, func(*paste.Event) { order = append(order, "compat") })
		p.On(paste.PriorityDefault, func(*paste.Event) { order = append(order, "default-2") })
		p.On(1, func(*paste.Event) { order = append(order, "first") })

		Expect(p.Fire(&paste.Event{})).To(Equal(4))
		Expect(order).To(Equal([]string{"first", "compat", "default-1", "default-2"}))
	})

	It("fires one-shot listeners at most once", func() {
		calls := 0
		p.Once(paste.PriorityCompat, func(ev *paste.Event) {
			calls++
			ev.DataValue += "!"
		})

		first := &paste.Event{DataValue: "a"}
		second := &paste.Event{DataValue: "a"}
		p.Fire(first)
		p.Fire(second)

		Expect(calls).To(Equal(1))
		Expect(first.DataValue).To(Equal("a!"))
		Expect(second.DataValue).To(Equal("a"))
		Expect(p.Len()).To(Equal(0))
	})

	It("keeps persistent listeners across events", func() {
		calls := 0
		p.On(paste.PriorityDefault, func(*paste.Event) { calls++ })
		p.Fire(&paste.Event{})
		p.Fire(&paste.Event{})
		Expect(calls).To(Equal(2))
		Expect(p.Len()).To(Equal(1))
	})

	It("does not fire removed listeners", func() {
		called := false
		l := p.Once(paste.PriorityCompat, func(*paste.Event) { called = true })
		other := p.On(paste.PriorityDefault, func(*paste.Event) {})
		l.Remove()
		l.Remove()
		other.Remove()

		Expect(p.Fire(&paste.Event{})).To(Equal(0))
		Expect(called).To(BeFalse())
	})

	It("tolerates removal after a one-shot listener fired", func() {
		l := p.Once(paste.PriorityCompat, func(*paste.Event) {})
		p.Fire(&paste.Event{})
		Expect(l.Remove).NotTo(Panic())
	})
})
