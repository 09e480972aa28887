package docai

import (
	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("parseAnalysisJSON", func() {
	var (
		jsonInput string
		result    *Result
		err       error
	)

	ginkgo.JustBeforeEach(func() {
		result, err = parseAnalysisJSON(jsonInput)
	})

	ginkgo.When("parsing a valid response", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = `{
				"pages": [
					{"documentFields": [
						{"fieldLabel": {"name": "VendorName", "confidence": 0.98}, "fieldValue": {"text": "SuperStore"}}
					]}
				],
				"detectedDocumentTypes": [
					{"documentType": "INVOICE", "confidence": 0.97}
				]
			}`
		})

		ginkgo.It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		ginkgo.It("should parse the pages", func() {
			Expect(result.Pages).To(HaveLen(1))
			Expect(result.Pages[0].DocumentFields).To(HaveLen(1))
		})

		ginkgo.It("should parse the field label", func() {
			field := result.Pages[0].DocumentFields[0]
			Expect(field.Name()).To(Equal("VendorName"))
			Expect(field.Confidence()).To(Equal(0.98))
		})

		ginkgo.It("should parse the detected document types", func() {
			Expect(result.DetectedDocumentTypes).To(HaveLen(1))
			Expect(result.DetectedDocumentTypes[0].Confidence).To(Equal(0.97))
		})
	})

	ginkgo.When("the response is wrapped in markdown code blocks", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = "```json\n{\"pages\": []}\n```"
		})

		ginkgo.It("should strip the code blocks and parse", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Pages).To(BeEmpty())
		})
	})

	ginkgo.When("the response has text around the JSON", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = `Here is the analysis: {"pages": []} hope that helps`
		})

		ginkgo.It("should extract the JSON object", func() {
			Expect(err).NotTo(HaveOccurred())
		})
	})

	ginkgo.When("the response has no JSON object", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = "I could not read the document"
		})

		ginkgo.It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	ginkgo.When("the response has no pages attribute", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = `{"detectedDocumentTypes": []}`
		})

		ginkgo.It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	ginkgo.When("the scalar arrives under the value attribute", func() {
		ginkgo.BeforeEach(func() {
			jsonInput = `{"pages": [{"documentFields": [
				{"fieldLabel": {"name": "InvoiceId"}, "fieldValue": {"value": "INV-42"}}
			]}]}`
		})

		ginkgo.It("should be reachable through the tolerant accessor", func() {
			Expect(err).NotTo(HaveOccurred())
			field := result.Pages[0].DocumentFields[0]
			Expect(*field.FieldValue.ScalarText()).To(Equal("INV-42"))
		})
	})
})
