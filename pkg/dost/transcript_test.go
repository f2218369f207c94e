package dost_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

var _ = Describe("TranscriptText", func() {
	It("reports absence for an empty echo", func() {
		_, ok := dost.TranscriptText(nil)
		Expect(ok).To(BeFalse())

		_, ok = dost.TranscriptText(json.RawMessage(`""`))
		Expect(ok).To(BeFalse())

		_, ok = dost.TranscriptText(json.RawMessage(`null`))
		Expect(ok).To(BeFalse())
	})

	It("uses a plain string echo directly", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`"what is gravity"`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal("what is gravity"))
	})

	It("prefers the text field of a structured echo", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`{"text":"heard this","latex":"x"}`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal("heard this"))
	})

	It("wraps a latex echo in display-math delimiters", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`{"latex":"  x^2 "}`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal(`\[x^2\]`))
	})

	It("parses an object smuggled inside a string echo", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`"{\"latex\":\"x^2\"}"`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal(`\[x^2\]`))
	})

	It("serializes objects with neither text nor latex", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`{"ocr":"blurry"}`))
		Expect(ok).To(BeTrue())
		Expect(text).To(MatchJSON(`{"ocr":"blurry"}`))
	})

	It("degrades to raw serialization for other shapes instead of failing", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`[1,2]`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal(`[1,2]`))
	})

	It("ignores empty text and latex fields", func() {
		text, ok := dost.TranscriptText(json.RawMessage(`{"text":"","latex":"y"}`))
		Expect(ok).To(BeTrue())
		Expect(text).To(Equal(`\[y\]`))
	})
})
