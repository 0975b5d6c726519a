package variant_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/spmdbench/variant"
)

var _ = Describe("Variant", func() {
	Describe("Key", func() {
		It("should name unthreaded keys by strategy", func() {
			Expect(variant.SPMDKey.String()).To(Equal("spmd"))
		})

		It("should append the threads suffix", func() {
			Expect(variant.IntrinThreadsKey.String()).To(Equal("intrin_threads"))
		})

		It("should parse every canonical name back", func() {
			for _, k := range variant.Canonical() {
				parsed, err := variant.ParseKey(k.String())
				Expect(err).NotTo(HaveOccurred())
				Expect(parsed).To(Equal(k))
			}
		})

		It("should reject unknown names", func() {
			_, err := variant.ParseKey("vector_threads")
			Expect(errors.Is(err, variant.ErrUnknownVariant)).To(BeTrue())

			var uv *variant.UnknownVariant
			Expect(errors.As(err, &uv)).To(BeTrue())
			Expect(uv.Name).To(Equal("vector_threads"))
		})

		It("should reject a bare suffix", func() {
			_, err := variant.ParseKey("_threads")
			Expect(err).To(MatchError(variant.ErrUnknownVariant))
		})
	})

	Describe("Family", func() {
		It("should build six cxx variants, threads innermost", func() {
			names := []string{}
			for _, k := range variant.CXX.Keys() {
				names = append(names, k.String())
			}
			Expect(names).To(Equal([]string{
				"scalar", "scalar_threads",
				"spmd", "spmd_threads",
				"intrin", "intrin_threads",
			}))
		})

		It("should build only scalar and spmd for rust", func() {
			Expect(variant.Rust.Keys()).To(Equal([]variant.Key{
				variant.ScalarKey, variant.SPMDKey,
			}))
		})

		It("should reject unknown families", func() {
			_, err := variant.ParseFamily("go")
			Expect(err).To(MatchError(variant.ErrUnknownVariant))
			Expect(err).To(MatchError(`unknown family "go"`))
		})
	})

	Describe("Enumerate", func() {
		It("should enumerate the default suite", func() {
			jobs := variant.Enumerate(variant.DefaultSuite(), variant.Filter{})
			// 2 cxx benchmarks x 6 + 5 rust benchmarks x 2
			Expect(jobs).To(HaveLen(22))
			Expect(jobs[0].Bench.Name).To(Equal("hash"))
			Expect(jobs[0].Key).To(Equal(variant.ScalarKey))
			Expect(jobs[len(jobs)-1].Bench.Name).To(Equal("fwt_nodivmod"))
			Expect(jobs[len(jobs)-1].Key).To(Equal(variant.SPMDKey))
		})

		It("should never yield intrin for rust benchmarks", func() {
			for _, j := range variant.Enumerate(variant.DefaultSuite(), variant.Filter{}) {
				if j.Bench.Family == variant.Rust {
					Expect(j.Key.Strategy).NotTo(Equal(variant.Intrin))
					Expect(j.Key.Threaded).To(BeFalse())
				}
			}
		})

		It("should filter by benchmark and strategy", func() {
			f, err := variant.NewFilter([]string{"hash", "fib_rec"}, []string{"spmd"})
			Expect(err).NotTo(HaveOccurred())

			jobs := variant.Enumerate(variant.DefaultSuite(), f)
			Expect(jobs).To(HaveLen(3))
			Expect(jobs[0].Key).To(Equal(variant.SPMDKey))
			Expect(jobs[1].Key).To(Equal(variant.SPMDThreadsKey))
			Expect(jobs[2].Bench.Name).To(Equal("fib_rec"))
		})

		It("should reject unknown strategies in filters", func() {
			_, err := variant.NewFilter(nil, []string{"simd"})
			Expect(err).To(MatchError(variant.ErrUnknownVariant))
			Expect(err).To(MatchError(`unknown strategy "simd"`))
		})
	})

	Describe("Suite", func() {
		It("should parse a YAML catalog", func() {
			s, err := variant.ParseSuite([]byte(`
benchmarks:
  - name: hash
    family: cxx
    source: hash/hash.cpp
  - name: fib_iter
    family: rust
    features: link_fib
`))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Benchmarks).To(HaveLen(2))
			Expect(s.Benchmarks[1].Family).To(Equal(variant.Rust))
		})

		It("should reject duplicate names", func() {
			_, err := variant.ParseSuite([]byte(`
benchmarks:
  - {name: hash, family: cxx, source: a.cpp}
  - {name: hash, family: cxx, source: b.cpp}
`))
			Expect(err).To(MatchError(ContainSubstring("duplicate")))
		})

		It("should reject entries missing their build input", func() {
			_, err := variant.ParseSuite([]byte(`
benchmarks:
  - {name: nbody, family: rust}
`))
			Expect(err).To(MatchError(ContainSubstring("features")))
		})

		It("should reject unknown families", func() {
			_, err := variant.ParseSuite([]byte(`
benchmarks:
  - {name: x, family: fortran, source: x.f}
`))
			Expect(err).To(MatchError(ContainSubstring("fortran")))
		})

		It("should accept the default suite", func() {
			Expect(variant.DefaultSuite().Validate()).To(Succeed())
		})
	})
})
