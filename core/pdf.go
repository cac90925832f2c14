package core

// PDFRef references an uploaded PDF. Only metadata is retained, never the file.
type PDFRef struct {
	PDFFileName    string `json:"pdf_file_name,omitempty" validate:"required_with=PDFContentType,max=255"`
	PDFContentType string `json:"pdf_content_type,omitempty" validate:"required_with=PDFFileName,pdfmime"`
}

func (p PDFRef) HasPDF() bool {
	return p.PDFFileName != ""
}

func (p *PDFRef) Clean() {
	p.PDFFileName = CleanString(p.PDFFileName)
	p.PDFContentType = CleanString(p.PDFContentType, true /* lower */)
}

// Attachment exposes the reference of a type embedding PDFRef, so uploads can be bound into it.
func (p *PDFRef) Attachment() *PDFRef {
	return p
}
