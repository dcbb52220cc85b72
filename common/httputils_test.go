package common_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"projman/common"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("HttpUtils", func() {
	Describe("HttpStatusIsSuccess", func() {
		It("should accept the whole 2xx range only", func() {
			Expect(common.HttpStatusIsSuccess(200)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(204)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(299)).To(BeTrue())
			Expect(common.HttpStatusIsSuccess(199)).To(BeFalse())
			Expect(common.HttpStatusIsSuccess(300)).To(BeFalse())
			Expect(common.HttpStatusIsSuccess(404)).To(BeFalse())
		})
	})

	Describe("HttpInvokeJson", func() {
		It("should return the body on success", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json;charset=UTF-8"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer token-1"))
				w.Write([]byte(`{"ok": true}`))
			}))
			defer server.Close()

			headers := http.Header{}
			headers.Set("Authorization", "Bearer token-1")
			body, err := common.HttpInvokeJson(context.Background(), http.MethodGet, server.URL, headers, "")
			Expect(err).To(BeNil())
			Expect(body).To(MatchJSON(`{"ok": true}`))
		})

		It("should carry the response detail of a non-2xx answer", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("gone"))
			}))
			defer server.Close()

			body, err := common.HttpInvokeJson(context.Background(), http.MethodGet, server.URL, nil, "")
			Expect(body).To(BeZero())
			invokeErr, ok := err.(*common.ErrHttpInvoke)
			Expect(ok).To(BeTrue())
			Expect(invokeErr.StatusCode).To(Equal(http.StatusNotFound))
			Expect(invokeErr.RespBody).To(Equal("gone"))
			Expect(invokeErr.Method).To(Equal(http.MethodGet))
			Expect(invokeErr.Error()).To(ContainSubstring("404"))
		})

		It("should report transport failures with a cause", func() {
			_, err := common.HttpInvokeJson(context.Background(), http.MethodGet, "http://127.0.0.1:1", nil, "")
			invokeErr, ok := err.(*common.ErrHttpInvoke)
			Expect(ok).To(BeTrue())
			Expect(invokeErr.StatusCode).To(BeZero())
			Expect(invokeErr.Unwrap()).ToNot(BeNil())
		})
	})
})
