package server_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Icon Endpoint", func() {
	It("should serve an icon as SVG", func() {
		resp, err := client.Get(ctx, "/icons/airstrip.svg")
		Expect(err).NotTo(HaveOccurred())

		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Headers.Get("Content-Type")).To(Equal("image/svg+xml"))
		Expect(resp.String()).To(ContainSubstring("<svg"))
	})

	It("should serve the sized variants", func() {
		resp, err := client.Get(ctx, "/icons/airstrip-24px.svg")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("should return 404 for a missing icon", func() {
		resp, err := client.Get(ctx, "/icons/missing.svg")
		Expect(err).NotTo(HaveOccurred())

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(resp.String()).To(MatchJSON(`{"error":"Icon not found."}`))
	})

	It("should not escape the icons directory", func() {
		resp, err := client.Get(ctx, "/icons/..%2Fmetadata.json")
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
