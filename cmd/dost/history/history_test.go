package historycmder

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SubhamSharma-IITM/dost-chat/chat"
	"github.com/SubhamSharma-IITM/dost-chat/history"
	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

var _ = Describe("History Command", func() {
	var (
		ctx     context.Context
		tmpDir  string
		cfgPath string
		dbPath  string
	)

	BeforeEach(func() {
		ctx = context.Background()
		tmpDir = GinkgoT().TempDir()
		cfgPath = filepath.Join(tmpDir, "dost.toml")
		dbPath = filepath.Join(tmpDir, "history.db")

		body := fmt.Sprintf("history_path = %q\n", dbPath)
		Expect(os.WriteFile(cfgPath, []byte(body), 0o600)).To(Succeed())
	})

	seed := func() {
		store, err := history.NewSQLiteStore(dbPath)
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		Expect(store.Append(ctx, "session-a", chat.Message{
			ID: "m1", Role: chat.RoleUser, Text: "what is gravity",
		})).To(Succeed())
		Expect(store.Append(ctx, "session-a", chat.Message{
			ID: "m2", Role: chat.RoleSystem,
			Script:  []string{"It pulls things down."},
			Results: []dost.ResultRecord{{"title": "Free fall drill", "link": "u"}},
		})).To(Succeed())
		Expect(store.Append(ctx, "session-b", chat.Message{
			ID: "m3", Role: chat.RoleUser, Text: "later session",
		})).To(Succeed())
	}

	execute := func(args ...string) (string, error) {
		cmd := NewHistoryCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
		err := cmd.ExecuteContext(ctx)
		return out.String(), err
	}

	It("lists recorded sessions oldest first", func() {
		seed()

		out, err := execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("session-a\nsession-b\n"))
	})

	It("prints a session transcript with roles", func() {
		seed()

		out, err := execute("session-a")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("[user] what is gravity"))
		Expect(out).To(ContainSubstring("[system] It pulls things down."))
		Expect(out).To(ContainSubstring("- Free fall drill"))
	})

	It("reports an empty database gracefully", func() {
		out, err := execute()
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("No recorded conversations."))
	})

	It("reports an unknown session gracefully", func() {
		seed()

		out, err := execute("session-z")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("No messages recorded for session session-z."))
	})

	It("requires a configured history database", func() {
		Expect(os.WriteFile(cfgPath, []byte(""), 0o600)).To(Succeed())

		_, err := execute()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("no history database configured"))
	})
})
