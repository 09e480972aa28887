package invoice

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/invoice-tracker/internal/docai"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	newStoredInvoice := func(id, vendor string) *Invoice {
		fields := docai.NewFieldMap()
		fields.Set("VendorName", vendor)
		fields.Set("InvoiceTotal", 58.11)
		confidences := docai.NewFieldMap()
		confidences.Set("VendorName", 0.98)
		confidences.Set("InvoiceTotal", 0.95)
		confidence := 0.97

		return &Invoice{
			ID:             id,
			VendorName:     vendor,
			Confidence:     &confidence,
			Data:           fields,
			DataConfidence: confidences,
			Filename:       id + "_invoice.pdf",
			ContentType:    "application/pdf",
			CreatedAt:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			UpdatedAt:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		}
	}

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	Describe("SaveInvoice and GetInvoice", func() {
		var (
			invoice *Invoice
			err     error
		)

		BeforeEach(func() {
			invoice = newStoredInvoice("test-id", "SuperStore")
		})

		JustBeforeEach(func() {
			err = db.SaveInvoice(invoice)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should make the invoice retrievable by ID", func() {
				saved, getErr := db.GetInvoice("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.VendorName).To(Equal("SuperStore"))
				Expect(*saved.Confidence).To(Equal(0.97))
			})

			It("should round-trip the extraction data in order", func() {
				saved, getErr := db.GetInvoice("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Data.Keys()).To(Equal([]string{"VendorName", "InvoiceTotal"}))

				total, ok := saved.Data.Get("InvoiceTotal")
				Expect(ok).To(BeTrue())
				Expect(total).To(Equal(58.11))
			})

			It("should overwrite an existing invoice with the same ID", func() {
				updated := newStoredInvoice("test-id", "OtherStore")
				Expect(db.SaveInvoice(updated)).To(Succeed())

				saved, getErr := db.GetInvoice("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.VendorName).To(Equal("OtherStore"))
			})
		})

		When("the invoice does not exist", func() {
			It("GetInvoice returns an error", func() {
				_, getErr := db.GetInvoice("missing")
				Expect(getErr).To(HaveOccurred())
				Expect(getErr.Error()).To(ContainSubstring("invoice not found"))
			})
		})
	})

	Describe("GetInvoicesByVendor", func() {
		BeforeEach(func() {
			Expect(db.SaveInvoice(newStoredInvoice("inv-1", "SuperStore"))).To(Succeed())
			Expect(db.SaveInvoice(newStoredInvoice("inv-2", "SuperStore"))).To(Succeed())
			Expect(db.SaveInvoice(newStoredInvoice("inv-3", "OtherStore"))).To(Succeed())
		})

		It("should return only the matching invoices", func() {
			invoices, err := db.GetInvoicesByVendor("SuperStore")
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(2))
		})

		It("should match vendor names case-insensitively", func() {
			invoices, err := db.GetInvoicesByVendor("superstore")
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).To(HaveLen(2))
		})

		It("should return an empty, non-nil list for unknown vendors", func() {
			invoices, err := db.GetInvoicesByVendor("NoSuchVendor")
			Expect(err).NotTo(HaveOccurred())
			Expect(invoices).NotTo(BeNil())
			Expect(invoices).To(BeEmpty())
		})
	})

	Describe("ListInvoices", func() {
		When("invoices exist", func() {
			BeforeEach(func() {
				Expect(db.SaveInvoice(newStoredInvoice("inv-1", "SuperStore"))).To(Succeed())
				Expect(db.SaveInvoice(newStoredInvoice("inv-2", "OtherStore"))).To(Succeed())
			})

			It("should return all invoices", func() {
				invoices, err := db.ListInvoices()
				Expect(err).NotTo(HaveOccurred())
				Expect(invoices).To(HaveLen(2))
			})
		})

		When("no invoices exist", func() {
			It("should return an empty, non-nil list", func() {
				invoices, err := db.ListInvoices()
				Expect(err).NotTo(HaveOccurred())
				Expect(invoices).NotTo(BeNil())
				Expect(invoices).To(BeEmpty())
			})
		})
	})

	Describe("DeleteInvoice", func() {
		BeforeEach(func() {
			Expect(db.SaveInvoice(newStoredInvoice("inv-1", "SuperStore"))).To(Succeed())
		})

		It("should remove the invoice", func() {
			Expect(db.DeleteInvoice("inv-1")).To(Succeed())
			_, err := db.GetInvoice("inv-1")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("NewBoltDB", func() {
		It("should fail when the path is not writable", func() {
			_, err := NewBoltDB(filepath.Join(tmpDir, "no-such-dir", "test.db"))
			Expect(err).To(HaveOccurred())
		})
	})
})
