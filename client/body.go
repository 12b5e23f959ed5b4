package client

import (
	"bytes"
	"fmt"
	"mime"
	"strings"
)

// Body is a request payload. Build one with [Bytes], [Text] or [JSON];
// each resolves to raw bytes plus a content type when handed to
// [Request.WithBody].
type Body interface {
	encode(c *Client) (*payload, error)
}

type payload struct {
	data        []byte
	contentType string
}

type rawBody struct {
	data        []byte
	contentType string
}

// Bytes sends data as is. An empty contentType leaves the
// Content-Type header to whatever the request headers say.
func Bytes(data []byte, contentType string) Body {
	return rawBody{data: data, contentType: contentType}
}

func (b rawBody) encode(*Client) (*payload, error) {
	return &payload{data: bytes.Clone(b.data), contentType: b.contentType}, nil
}

type textBody struct {
	content   string
	mediaType string
}

// Text sends content as UTF-8 text. mediaType defaults to "text/plain"
// and may carry parameters; a charset parameter, if given, must be UTF-8.
func Text(content, mediaType string) Body {
	return textBody{content: content, mediaType: mediaType}
}

func (b textBody) encode(*Client) (*payload, error) {
	mediaType := b.mediaType
	if mediaType == "" {
		mediaType = mediaTypeText
	}

	base, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return nil, fmt.Errorf("parsing media type %q: %w", mediaType, err)
	}

	if cs, ok := params["charset"]; ok && !strings.EqualFold(cs, "utf-8") {
		return nil, fmt.Errorf("text is sent as utf-8, media type %q declares charset %q", mediaType, cs)
	}
	params["charset"] = "utf-8"

	return &payload{
		data:        []byte(b.content),
		contentType: mime.FormatMediaType(base, params),
	}, nil
}

type jsonBody struct {
	model any
}

// JSON serializes model with the client's JSON codec and sends it as
// application/json. The payload is exactly what the codec produces for
// model. When the client was built with [WithModelValidation], struct
// models are first checked against their `validate` tags and failures
// are reported as [FieldErrors].
func JSON(model any) Body {
	return jsonBody{model: model}
}

func (b jsonBody) encode(c *Client) (*payload, error) {
	if c.validateModels {
		if err := validateModel(b.model); err != nil {
			return nil, err
		}
	}

	data, err := c.json.Marshal(b.model)
	if err != nil {
		return nil, fmt.Errorf("marshaling model: %w", err)
	}

	return &payload{
		data:        data,
		contentType: mediaTypeJSON + "; " + charsetUTF8,
	}, nil
}
