package askcmder

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Ask Command", func() {
	var (
		ctx     context.Context
		tmpDir  string
		cfgPath string
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		cfgPath = filepath.Join(tmpDir, "dost.toml")
	})

	writeConfig := func(endpoint string) {
		body := fmt.Sprintf("endpoint = %q\n\n[auth]\nbearer = \"tok-1\"\nstudent_id = \"stu-1\"\n", endpoint)
		Expect(os.WriteFile(cfgPath, []byte(body), 0o600)).To(Succeed())
	}

	startServer := func(handler http.HandlerFunc) *httptest.Server {
		srv := httptest.NewServer(handler)
		DeferCleanup(srv.Close)
		return srv
	}

	execute := func(args ...string) (string, error) {
		cmd := NewAskCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("prints the narrative and linked results of a mixed answer", func() {
		var gotQuery, gotAuth string
		srv := startServer(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
			gotQuery = r.FormValue("query")
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{
				"reasoning": {"general_script": ["Gravity pulls things down."]},
				"result": {"data": {"Physics": [{"title": "Free fall drill", "link": "https://x/drill"}]}}
			}`))
		})
		writeConfig(srv.URL)

		out, err := execute("what", "is", "gravity")
		Expect(err).NotTo(HaveOccurred())

		Expect(gotQuery).To(Equal("what is gravity"))
		Expect(gotAuth).To(Equal("Bearer tok-1"))
		Expect(out).To(ContainSubstring("Gravity pulls things down."))
		Expect(out).To(ContainSubstring("- Free fall drill (https://x/drill)"))
	})

	It("submits a staged image with the query as its caption", func() {
		imagePath := filepath.Join(tmpDir, "diagram.png")
		Expect(os.WriteFile(imagePath, []byte("png-bytes"), 0o600)).To(Succeed())

		var gotContext string
		var gotImage bool
		srv := startServer(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
			gotContext = r.FormValue("context")
			_, _, err := r.FormFile("image")
			gotImage = err == nil
			w.Write([]byte(`{"reasoning": {"general_script": ["A projectile diagram."]}}`))
		})
		writeConfig(srv.URL)

		out, err := execute("--image", imagePath, "what does this show?")
		Expect(err).NotTo(HaveOccurred())

		Expect(gotImage).To(BeTrue())
		Expect(gotContext).To(Equal("what does this show?"))
		Expect(out).To(ContainSubstring("A projectile diagram."))
	})

	It("surfaces a backend failure as an error", func() {
		srv := startServer(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
		})
		writeConfig(srv.URL)

		_, err := execute("anything")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("query failed"))
	})

	It("errors when the staged image cannot be read", func() {
		srv := startServer(func(w http.ResponseWriter, r *http.Request) {
			Fail("no request should be issued")
		})
		writeConfig(srv.URL)

		_, err := execute("--image", filepath.Join(tmpDir, "missing.png"), "query")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("could not read image"))
	})
})
