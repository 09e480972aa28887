package docai

import (
	"encoding/json"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("FieldMap", func() {
	var m *FieldMap

	ginkgo.BeforeEach(func() {
		m = NewFieldMap()
	})

	ginkgo.Describe("Set and Get", func() {
		ginkgo.It("should store and retrieve values", func() {
			m.Set("VendorName", "SuperStore")
			v, ok := m.Get("VendorName")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("SuperStore"))
		})

		ginkgo.It("should report missing keys", func() {
			_, ok := m.Get("missing")
			Expect(ok).To(BeFalse())
		})

		ginkgo.It("should overwrite without duplicating the key", func() {
			m.Set("InvoiceTotal", 10.0)
			m.Set("InvoiceTotal", 20.0)
			Expect(m.Len()).To(Equal(1))
			v, _ := m.Get("InvoiceTotal")
			Expect(v).To(Equal(20.0))
		})

		ginkgo.It("should keep the first-seen position on overwrite", func() {
			m.Set("a", 1)
			m.Set("b", 2)
			m.Set("a", 3)
			Expect(m.Keys()).To(Equal([]string{"a", "b"}))
		})
	})

	ginkgo.Describe("MarshalJSON", func() {
		ginkgo.It("should preserve insertion order", func() {
			m.Set("zebra", 1.0)
			m.Set("apple", 2.0)
			m.Set("mango", 3.0)

			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"zebra":1,"apple":2,"mango":3}`))
		})

		ginkgo.It("should encode an empty map as an empty object", func() {
			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{}`))
		})

		ginkgo.It("should encode the empty key", func() {
			m.Set("", "orphan")
			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"":"orphan"}`))
		})
	})

	ginkgo.Describe("UnmarshalJSON", func() {
		ginkgo.It("should restore keys in document order", func() {
			var decoded FieldMap
			err := json.Unmarshal([]byte(`{"zebra":1,"apple":"two","mango":null}`), &decoded)
			Expect(err).NotTo(HaveOccurred())
			Expect(decoded.Keys()).To(Equal([]string{"zebra", "apple", "mango"}))

			v, _ := decoded.Get("apple")
			Expect(v).To(Equal("two"))

			v, ok := decoded.Get("mango")
			Expect(ok).To(BeTrue())
			Expect(v).To(BeNil())
		})

		ginkgo.It("should round-trip through JSON unchanged", func() {
			m.Set("VendorName", "SuperStore")
			m.Set("InvoiceTotal", 58.11)
			m.Set("Items", []LineItem{{"Quantity": 2.0}})

			data, err := json.Marshal(m)
			Expect(err).NotTo(HaveOccurred())

			var decoded FieldMap
			Expect(json.Unmarshal(data, &decoded)).NotTo(HaveOccurred())

			again, err := json.Marshal(&decoded)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(again)).To(Equal(string(data)))
		})

		ginkgo.It("should reject non-object input", func() {
			var decoded FieldMap
			Expect(json.Unmarshal([]byte(`[1,2,3]`), &decoded)).To(HaveOccurred())
		})
	})
})
