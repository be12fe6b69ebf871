package disasm_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/a2xxdis/disasm"
)

var _ = Describe("Config", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "a2xxdis-config-test")
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tempDir)
	})

	It("should default to both echoes disabled", func() {
		config := disasm.DefaultConfig()
		Expect(config.ShowRawWords).To(BeFalse())
		Expect(config.ShowUnknownBits).To(BeFalse())
	})

	It("should load settings from a JSON file", func() {
		path := filepath.Join(tempDir, "output.json")
		err := os.WriteFile(path, []byte(`{"show_raw_words": true}`), 0644)
		Expect(err).ToNot(HaveOccurred())

		config, err := disasm.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(config.ShowRawWords).To(BeTrue())
		Expect(config.ShowUnknownBits).To(BeFalse())
	})

	It("should round-trip through Save and LoadConfig", func() {
		path := filepath.Join(tempDir, "output.json")
		config := &disasm.Config{ShowRawWords: true, ShowUnknownBits: true}

		Expect(config.Save(path)).To(Succeed())

		loaded, err := disasm.LoadConfig(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(config))
	})

	It("should fail on a missing file", func() {
		_, err := disasm.LoadConfig(filepath.Join(tempDir, "nope.json"))
		Expect(err).To(HaveOccurred())
	})

	It("should fail on malformed JSON", func() {
		path := filepath.Join(tempDir, "bad.json")
		err := os.WriteFile(path, []byte("{"), 0644)
		Expect(err).ToNot(HaveOccurred())

		_, err = disasm.LoadConfig(path)
		Expect(err).To(HaveOccurred())
	})
})
