package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MarcinKonowalczyk/bfc/bf"
	"github.com/MarcinKonowalczyk/bfc/driver"

	"github.com/containerd/errdefs"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OutputPath", func() {
	It("should swap the extension", func() {
		Expect(driver.OutputPath("hello.bf", driver.CExt)).To(Equal("hello.c"))
		Expect(driver.OutputPath("dir/prog.b", driver.CExt)).To(Equal("dir/prog.c"))
		Expect(driver.OutputPath("a.b.bf", driver.CExt)).To(Equal("a.b.c"))
	})

	It("should reject names without an extension", func() {
		for _, input := range []string{"hello", ".bf", "dir.d/hello"} {
			_, err := driver.OutputPath(input, driver.CExt)
			Expect(errdefs.IsInvalidArgument(err)).To(BeTrue(), input)
		}
	})

	It("should not overwrite the input", func() {
		_, err := driver.OutputPath("prog.c", driver.CExt)
		Expect(errdefs.IsInvalidArgument(err)).To(BeTrue())
	})
})

var _ = Describe("Driver", func() {
	var (
		ctx context.Context
		dir string
	)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
		return path
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		dir, err = os.MkdirTemp("", "bfc-driver")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
	})

	Context("Transpile", func() {
		It("should write the C program next to the source", func() {
			input := write("prog.bf", "++>,.<[-] comments are ignored")

			output, err := driver.Transpile(ctx, driver.Options{Input: input})
			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(Equal(filepath.Join(dir, "prog.c")))

			data, err := os.ReadFile(output)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(bf.Compile("++>,.<[-]")))
		})

		It("should honour an explicit output path", func() {
			input := write("prog.bf", "+")
			target := filepath.Join(dir, "out.c")

			output, err := driver.Transpile(ctx, driver.Options{Input: input, Output: target})
			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(Equal(target))
			Expect(target).To(BeAnExistingFile())
		})

		It("should write to stdout for '-'", func() {
			input := write("prog.bf", ".")
			var out bytes.Buffer

			_, err := driver.Transpile(ctx, driver.Options{Input: input, Output: driver.Stdout, Stdout: &out})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal(bf.Prologue + "putchar(*ptr);\n" + bf.Epilogue))
		})

		It("should emit unbalanced loops unless strict", func() {
			input := write("open.bf", "[[")

			output, err := driver.Transpile(ctx, driver.Options{Input: input})
			Expect(err).NotTo(HaveOccurred())
			Expect(output).To(BeAnExistingFile())

			strictOut := filepath.Join(dir, "strict.c")
			_, err = driver.Transpile(ctx, driver.Options{Input: input, Output: strictOut, Strict: true})
			Expect(err).To(MatchError(bf.ErrUnbalancedLoop))
			Expect(errdefs.IsInvalidArgument(err)).To(BeTrue())
			Expect(strictOut).NotTo(BeAnExistingFile())
		})

		It("should report a missing input", func() {
			_, err := driver.Transpile(ctx, driver.Options{Input: filepath.Join(dir, "missing.bf")})
			Expect(errdefs.IsNotFound(err)).To(BeTrue())
		})

		It("should require an input", func() {
			_, err := driver.Transpile(ctx, driver.Options{})
			Expect(errdefs.IsInvalidArgument(err)).To(BeTrue())
		})

		It("should write into a named pipe", func() {
			input := write("prog.bf", "+.")
			pipe := filepath.Join(dir, "out.fifo")
			Expect(syscall.Mkfifo(pipe, 0o600)).To(Succeed())

			received := make(chan string, 1)
			go func() {
				defer GinkgoRecover()
				data, err := os.ReadFile(pipe)
				Expect(err).NotTo(HaveOccurred())
				received <- string(data)
			}()

			tctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := driver.Transpile(tctx, driver.Options{Input: input, Output: pipe})
			Expect(err).NotTo(HaveOccurred())
			Eventually(received).Should(Receive(Equal(bf.Compile("+."))))
		})
	})

	Context("Execute", func() {
		It("should interpret the source", func() {
			input := write("echo.bf", ",+.")
			var out bytes.Buffer

			err := driver.Execute(ctx, driver.Options{
				Input:  input,
				Stdin:  bytes.NewBufferString("a"),
				Stdout: &out,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.String()).To(Equal("b"))
		})

		It("should refuse unbalanced loops", func() {
			input := write("bad.bf", "]")
			err := driver.Execute(ctx, driver.Options{Input: input, Stdout: &bytes.Buffer{}})
			Expect(err).To(MatchError(bf.ErrUnbalancedLoop))
		})

		It("should report running off the tape", func() {
			input := write("left.bf", "<")
			err := driver.Execute(ctx, driver.Options{Input: input, Stdout: &bytes.Buffer{}})
			Expect(err).To(MatchError(bf.ErrTapeOverflow))
			Expect(errdefs.IsOutOfRange(err)).To(BeTrue())
		})
	})
})
