package render

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// encodingFor returns the decoder for a DBCS code page, or nil when the
// bytes are already UTF-8.
func encodingFor(codePage int) encoding.Encoding {
	switch codePage {
	case 932:
		return japanese.ShiftJIS
	case 936:
		return simplifiedchinese.GBK
	case 949:
		return korean.EUCKR
	case 950:
		return traditionalchinese.Big5
	}
	return nil
}

// Decode converts document bytes in codePage to a UTF-8 string. Bytes that
// do not decode become U+FFFD.
func Decode(codePage int, b []byte) string {
	enc := encodingFor(codePage)
	if enc == nil {
		return string(b)
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
