package dost_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

var _ = Describe("Normalize", func() {
	Context("when the response has no result categories", func() {
		It("classifies as general-query carrying the narrative", func() {
			resp := &dost.QueryResponse{
				Reasoning: &dost.Reasoning{GeneralScript: []string{"Step 1"}},
				Result:    &dost.Result{Data: map[string][]dost.ResultRecord{}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Kind).To(Equal(dost.KindGeneralQuery))
			Expect(answer.Script).To(Equal([]string{"Step 1"}))
			Expect(answer.Results).To(BeEmpty())
		})

		It("treats a missing result section the same as empty", func() {
			resp := &dost.QueryResponse{
				Reasoning: &dost.Reasoning{GeneralScript: []string{"Only prose"}},
			}

			Expect(dost.Normalize(resp).Kind).To(Equal(dost.KindGeneralQuery))
		})

		It("handles a fully empty response without error", func() {
			answer := dost.Normalize(&dost.QueryResponse{})

			Expect(answer.Kind).To(Equal(dost.KindGeneralQuery))
			Expect(answer.Script).To(BeEmpty())
		})

		It("handles a nil response without error", func() {
			Expect(dost.Normalize(nil).Kind).To(Equal(dost.KindGeneralQuery))
		})
	})

	Context("when results are present without narrative", func() {
		It("classifies as dost-combo", func() {
			resp := &dost.QueryResponse{
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Physics": {{"title": "A", "link": "x"}},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Kind).To(Equal(dost.KindDostCombo))
			Expect(answer.Results).To(HaveLen(1))
		})

		It("deduplicates records sharing a link value, keeping the first", func() {
			resp := &dost.QueryResponse{
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Physics": {
						{"title": "A", "link": "x"},
						{"title": "B", "link": "x"},
					},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Kind).To(Equal(dost.KindDostCombo))
			Expect(answer.Results).To(HaveLen(1))
			Expect(answer.Results[0]["title"]).To(Equal("A"))
		})

		It("collapses records with no link-bearing key into one", func() {
			resp := &dost.QueryResponse{
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Misc": {
						{"title": "first"},
						{"title": "second"},
						{"title": "third", "practiceLink": "y"},
					},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Results).To(HaveLen(2))
			Expect(answer.Results[0]["title"]).To(Equal("first"))
			Expect(answer.Results[1]["title"]).To(Equal("third"))
		})

		It("flattens categories in sorted name order preserving first occurrence", func() {
			resp := &dost.QueryResponse{
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Zoology": {{"title": "Z", "link": "shared"}},
					"Algebra": {{"title": "A", "link": "shared"}},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Results).To(HaveLen(1))
			Expect(answer.Results[0]["title"]).To(Equal("A"))
		})
	})

	Context("when narrative and results are both present", func() {
		It("classifies as mixed-combo carrying both", func() {
			resp := &dost.QueryResponse{
				Reasoning: &dost.Reasoning{GeneralScript: []string{"Here is why"}},
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Physics": {{"title": "A", "link": "x"}},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Kind).To(Equal(dost.KindMixedCombo))
			Expect(answer.Script).To(HaveLen(1))
			Expect(answer.Results).To(HaveLen(1))
		})

		It("falls back to dost-combo when every record deduplicates away to nothing", func() {
			resp := &dost.QueryResponse{
				Reasoning: &dost.Reasoning{GeneralScript: []string{"prose"}},
				Result: &dost.Result{Data: map[string][]dost.ResultRecord{
					"Empty": {},
				}},
			}

			answer := dost.Normalize(resp)

			Expect(answer.Kind).To(Equal(dost.KindDostCombo))
			Expect(answer.Results).To(BeEmpty())
		})
	})
})

var _ = Describe("ResultRecord", func() {
	Describe("LinkValue", func() {
		It("matches link-bearing keys case-insensitively by substring", func() {
			Expect(dost.ResultRecord{"PracticeLINK": "u"}.LinkValue()).To(Equal("u"))
			Expect(dost.ResultRecord{"hyperlink_url": "v"}.LinkValue()).To(Equal("v"))
		})

		It("returns empty for records without a link-bearing key", func() {
			Expect(dost.ResultRecord{"title": "t"}.LinkValue()).To(Equal(""))
		})

		It("uses the first matching key in sorted order", func() {
			r := dost.ResultRecord{"zlink": "late", "alink": "early"}
			Expect(r.LinkValue()).To(Equal("early"))
		})

		It("stringifies non-string link values", func() {
			Expect(dost.ResultRecord{"link": 42.0}.LinkValue()).To(Equal("42"))
		})

		It("treats a nil link value as empty", func() {
			Expect(dost.ResultRecord{"link": nil}.LinkValue()).To(Equal(""))
		})
	})
})
