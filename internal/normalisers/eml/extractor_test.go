package eml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/datacrafter/internal/core/domain"
)

func crlf(s string) []byte {
	return []byte(strings.ReplaceAll(s, "\n", "\r\n"))
}

func TestExtensions(t *testing.T) {
	e := New()

	assert.Equal(t, "eml", e.Name())
	assert.Equal(t, []string{".eml"}, e.Extensions())
}

func TestExtract_PlainText(t *testing.T) {
	msg := crlf(`From: Ana <ana@example.com>
To: team@example.com
Date: Mon, 2 Jun 2025 10:00:00 +0000
Subject: Contract renewal

The contract renews on 1 July.
`)

	text, err := New().Extract(msg)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Contract renewal\n\n"))
	assert.Contains(t, text, "From: Ana <ana@example.com>")
	assert.Contains(t, text, "To: team@example.com")
	assert.Contains(t, text, "Date: Mon, 2 Jun 2025 10:00:00 +0000")
	assert.Contains(t, text, "The contract renews on 1 July.")
}

func TestExtract_EncodedSubject(t *testing.T) {
	msg := crlf(`Subject: =?UTF-8?B?Q29uZmlybWFjacOzbg==?=

body
`)

	text, err := New().Extract(msg)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Confirmación"))
}

func TestExtract_HTMLBody(t *testing.T) {
	msg := crlf(`Subject: Newsletter
Content-Type: text/html; charset=utf-8

<html><body><p>Hello <b>reader</b></p></body></html>
`)

	text, err := New().Extract(msg)

	require.NoError(t, err)
	assert.Contains(t, text, "Hello reader")
	assert.NotContains(t, text, "<b>")
}

func TestExtract_MultipartPrefersPlainText(t *testing.T) {
	msg := crlf(`Subject: Report
Content-Type: multipart/mixed; boundary="outer"

--outer
Content-Type: multipart/alternative; boundary="inner"

--inner
Content-Type: text/plain

Plain version
--inner
Content-Type: text/html

<p>HTML version</p>
--inner--
--outer
Content-Type: application/pdf
Content-Disposition: attachment; filename="report.pdf"

%PDF-1.4
--outer--
`)

	text, err := New().Extract(msg)

	require.NoError(t, err)
	assert.Contains(t, text, "Plain version")
	assert.NotContains(t, text, "HTML version")
	assert.NotContains(t, text, "%PDF")
}

func TestExtract_MultipartHTMLOnly(t *testing.T) {
	msg := crlf(`Content-Type: multipart/alternative; boundary="b"

--b
Content-Type: text/html

<p>Only <i>HTML</i></p>
--b--
`)

	text, err := New().Extract(msg)

	require.NoError(t, err)
	assert.Equal(t, "Only HTML", text)
}

func TestExtract_Invalid(t *testing.T) {
	_, err := New().Extract([]byte("not an email"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
