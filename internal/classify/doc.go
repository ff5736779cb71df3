// Package classify extracts and labels the numeral painted between a
// matched light pair.
//
// Extraction perspective-warps the inter-light region into a fixed-size
// upright binary crop. Classification runs that crop through a Classifier
// backend producing a label from the closed set {"0".."9", "negative",
// "unknown"} with a confidence score. Two backends are provided: a linear
// softmax model with weights loaded from disk (the default), and a
// Tesseract OCR wrapper restricted to digits.
//
// Low-confidence predictions are downgraded to "unknown" but kept, so the
// caller can apply its own filtering policy. Predictions of "negative"
// (the background class) remove the armor outright: whatever geometry
// matched, it is not a plate.
package classify
