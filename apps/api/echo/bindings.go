package echoapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/dynamiclms/core"
)

const pdfFormField = "pdf"

type (
	validatable interface {
		Validate(validate *validator.Validate) error
	}

	attachable interface {
		Attachment() *core.PDFRef
	}
)

// bindPDF fills ref from the multipart "pdf" file. The content type is detected from the file content,
// never trusted from the client.
func bindPDF(ctx echo.Context, ref *core.PDFRef) error {
	if !strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil
	}
	fh, err := ctx.FormFile(pdfFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		return errors.Wrap(err, "reading pdf upload")
	}

	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening pdf upload")
	}
	defer func() { _ = f.Close() }()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return errors.Wrap(err, "detecting pdf upload type")
	}
	ref.PDFFileName = fh.Filename
	ref.PDFContentType = mtype.String()
	return nil
}

// create is the create flow shared by every portal form: bind, attach the uploaded PDF if any, validate,
// save & respond 201 with the saved entity.
func create[T validatable, R any](
	ctx echo.Context,
	validate *validator.Validate,
	data T,
	save func(ctx context.Context) (R, error),
) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrapf(err, "binding to %T", data)
	}
	if att, ok := any(data).(attachable); ok {
		if err := bindPDF(ctx, att.Attachment()); err != nil {
			return err
		}
	}
	if err := data.Validate(validate); err != nil {
		return err
	}

	obj, err := save(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, obj)
}
