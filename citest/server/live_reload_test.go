package server_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/digidem/mapeo-config-renderer/citest/testutil"
	"github.com/digidem/mapeo-config-renderer/internal/server"
)

const newPreset = `{
  "name": "Waterfall",
  "icon": "river",
  "color": "#1a73e8",
  "geometry": ["point"],
  "tags": {"natural": "waterfall"},
  "fields": [],
  "sort": 0
}`

var _ = Describe("Live Reload", func() {
	var (
		live    *testutil.TestServer
		liveCtx context.Context
		cancel  context.CancelFunc
	)

	BeforeEach(func() {
		var err error
		live, err = testutil.StartTestServer(testutil.WithDebounce(100 * time.Millisecond))
		Expect(err).NotTo(HaveOccurred())
		liveCtx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	})

	AfterEach(func() {
		cancel()
		live.Stop()
	})

	writePreset := func() {
		path := filepath.Join(live.ConfigDir, "presets", "waterfall.json")
		Expect(os.WriteFile(path, []byte(newPreset), 0o644)).To(Succeed())
	}

	It("should notify SSE clients when a preset changes", func() {
		sse := live.SSEClient()
		Expect(sse.Connect(liveCtx, "/event")).To(Succeed())
		defer sse.Close()

		_, err := sse.WaitForEvent(server.NotifyConnected, 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		writePreset()

		evt, err := sse.WaitForEvent(server.NotifyPresetsUpdate, 10*time.Second)
		Expect(err).NotTo(HaveOccurred())
		Expect(evt.ID).NotTo(BeEmpty())

		var props struct {
			Paths []string `json:"paths"`
		}
		Expect(evt.Properties(&props)).To(Succeed())
		Expect(props.Paths).To(ContainElement("presets/waterfall.json"))
	})

	It("should notify WebSocket clients when a preset changes", func() {
		conn, err := live.Client().DialWebSocket(liveCtx)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		// Give the hub time to register the client.
		time.Sleep(100 * time.Millisecond)
		writePreset()

		Expect(conn.SetReadDeadline(time.Now().Add(10 * time.Second))).To(Succeed())
		_, data, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())

		var msg server.WSMessage
		Expect(json.Unmarshal(data, &msg)).To(Succeed())
		Expect(msg.Type).To(Equal(server.NotifyPresetsUpdate))
		Expect(msg.Message).To(Equal(server.PresetsUpdatedMessage))
	})

	It("should serve the new preset after reload", func() {
		writePreset()

		Eventually(func() []string {
			cfg, err := live.Client().GetConfig(liveCtx)
			if err != nil {
				return nil
			}
			return cfg.PresetNames()
		}, 5*time.Second, 100*time.Millisecond).Should(ContainElement("Waterfall"))
	})

	It("should announce a burst of writes once", func() {
		sse := live.SSEClient()
		Expect(sse.Connect(liveCtx, "/event")).To(Succeed())
		defer sse.Close()

		_, err := sse.WaitForEvent(server.NotifyConnected, 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		for _, name := range []string{"a.json", "b.json", "c.json"} {
			path := filepath.Join(live.ConfigDir, "presets", name)
			Expect(os.WriteFile(path, []byte(newPreset), 0o644)).To(Succeed())
		}

		evt, err := sse.WaitForEvent(server.NotifyPresetsUpdate, 10*time.Second)
		Expect(err).NotTo(HaveOccurred())

		var props struct {
			Paths []string `json:"paths"`
		}
		Expect(evt.Properties(&props)).To(Succeed())
		Expect(props.Paths).To(ConsistOf("presets/a.json", "presets/b.json", "presets/c.json"))

		Consistently(func() int {
			return sse.CountEventType(server.NotifyPresetsUpdate)
		}, 500*time.Millisecond, 50*time.Millisecond).Should(Equal(1))
	})

	It("should ignore dotfiles", func() {
		sse := live.SSEClient()
		Expect(sse.Connect(liveCtx, "/event")).To(Succeed())
		defer sse.Close()

		_, err := sse.WaitForEvent(server.NotifyConnected, 5*time.Second)
		Expect(err).NotTo(HaveOccurred())

		Expect(os.WriteFile(filepath.Join(live.ConfigDir, ".scratch"), []byte("x"), 0o644)).To(Succeed())

		Consistently(func() bool {
			return sse.HasEventType(server.NotifyPresetsUpdate)
		}, 600*time.Millisecond, 100*time.Millisecond).Should(BeFalse())
	})
})
