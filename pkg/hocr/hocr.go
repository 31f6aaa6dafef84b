// Package hocr implements parsing and generation of hOCR data, the HTML-based
// format OCR engines such as Tesseract use to report recognized text together
// with its layout.
//
// The package models an hOCR document as a tree of Nodes, each tagged with a
// Kind from a closed vocabulary:
//
// - KindPage: 'ocr_page'
// - KindArea: 'ocr_carea'
// - KindParagraph: 'ocr_par'
// - KindLine, KindHeader, KindTextFloat, KindCaption: 'ocr_line', 'ocr_header', 'ocr_textfloat', 'ocr_caption'
// - KindWord: 'ocrx_word'
//
// Elements outside the vocabulary are kept as Unrecognized leaves so that callers
// can see them, but their content is not parsed.
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR HTML into a Document
// - GenerateHOCRDocument: Renders a Document back to hOCR HTML
// - ExtractText: Plain text of a Document
// - MergeDocuments: Joins single-page documents into one
package hocr
