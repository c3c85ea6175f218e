package server_test

import (
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/digidem/mapeo-config-renderer/citest/testutil"
	"github.com/digidem/mapeo-config-renderer/internal/fixture"
)

var _ = Describe("Configuration Endpoints", func() {
	Describe("GET /api/config", func() {
		It("should return the whole CoMapeo configuration", func() {
			cfg, err := client.GetConfig(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(cfg.Format).To(Equal("comapeo"))
			Expect(cfg.Presets).To(HaveLen(4))
			Expect(cfg.PresetNames()[0]).To(Equal("Airstrip"))
			Expect(cfg.Fields).NotTo(BeEmpty())
			Expect(cfg.Messages).To(HaveKey("es"))
			Expect(cfg.Metadata).To(HaveKeyWithValue("name", "config-mulokot-comapeo-category"))
			Expect(cfg.Stylesheet).To(ContainSubstring(".preset-"))
		})

		It("should build icon URLs from the request host and server port", func() {
			cfg, err := client.GetConfig(ctx)
			Expect(err).NotTo(HaveOccurred())

			want := fmt.Sprintf("http://localhost:%d/icons/airstrip.svg", testServer.Port())
			Expect(cfg.Presets[0]).To(HaveKeyWithValue("iconPath", want))
		})

		It("should honour X-Forwarded-Proto", func() {
			resp, err := client.Get(ctx, "/api/config", testutil.WithHeader("X-Forwarded-Proto", "https"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))

			var cfg testutil.Configuration
			Expect(resp.JSON(&cfg)).To(Succeed())
			Expect(cfg.Presets[0]["iconPath"]).To(HavePrefix("https://localhost:"))
		})
	})

	Describe("category endpoints", func() {
		DescribeTable("should answer with JSON",
			func(path string) {
				resp, err := client.Get(ctx, path)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Headers.Get("Content-Type")).To(ContainSubstring("application/json"))
			},
			Entry("presets", "/api/presets"),
			Entry("fields", "/api/fields"),
			Entry("messages", "/api/messages"),
			Entry("defaults", "/api/defaults"),
			Entry("metadata", "/api/metadata"),
		)

		It("should serve the stylesheet as CSS", func() {
			for _, path := range []string{"/api/stylesheet", "/style.css"} {
				resp, err := client.Get(ctx, path)
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Headers.Get("Content-Type")).To(ContainSubstring("text/css"))
				Expect(resp.String()).To(ContainSubstring(".preset-"))
			}
		})
	})

	Describe("GET /path", func() {
		It("should report the configuration directory", func() {
			resp, err := client.Get(ctx, "/path")
			Expect(err).NotTo(HaveOccurred())

			var body map[string]string
			Expect(resp.JSON(&body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("data", testServer.ConfigDir))
		})
	})

	Describe("CORS", func() {
		It("should allow any origin", func() {
			resp, err := client.Get(ctx, "/api/presets", testutil.WithHeader("Origin", "http://elsewhere.test"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Headers.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})
})

var _ = Describe("Legacy Configuration", func() {
	var legacy *testutil.TestServer

	BeforeEach(func() {
		var err error
		legacy, err = testutil.StartTestServer(testutil.WithFixture(fixture.Legacy))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		legacy.Stop()
	})

	It("should sort by sort key then name and use relative icon paths", func() {
		cfg, err := legacy.Client().GetConfig(ctx)
		Expect(err).NotTo(HaveOccurred())

		Expect(cfg.Format).To(Equal("legacy"))
		Expect(cfg.PresetNames()).To(Equal([]string{"Sacred Site", "River", "Airstrip", "Village"}))
		Expect(cfg.Presets[0]).To(HaveKeyWithValue("iconPath", "icons/sacred-site-100px.svg"))
		Expect(cfg.Messages).To(BeEmpty())
		Expect(cfg.Stylesheet).To(BeEmpty())
	})
})
