// Package i18n holds the user-facing message catalogs of the catalog API.
// Indonesian is the primary language; English is available on request.
package i18n

import (
	"fmt"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
)

// Supported locales.
const (
	LocaleID = "id"
	LocaleEN = "en"
)

// Supported lists every locale with a catalog, default first.
var Supported = []string{LocaleID, LocaleEN}

// Response message keys.
const (
	MsgListSuccess      = "product.list.success"
	MsgShowSuccess      = "product.show.success"
	MsgCreateSuccess    = "product.create.success"
	MsgUpdateSuccess    = "product.update.success"
	MsgDeleteSuccess    = "product.delete.success"
	MsgDeleteFailed     = "product.delete.failed"
	MsgStockAvailable   = "product.delete.stock_available"
	MsgNotFound         = "product.not_found"
	MsgValidationFailed = "validation.failed"
	MsgInvalidBody      = "request.invalid_body"
	MsgServerError      = "server.error"
)

var catalogs = map[string]map[string]string{
	LocaleID: {
		MsgListSuccess:      "Daftar produk berhasil diambil.",
		MsgShowSuccess:      "Detail produk berhasil diambil.",
		MsgCreateSuccess:    "Produk berhasil ditambahkan.",
		MsgUpdateSuccess:    "Produk berhasil diperbarui.",
		MsgDeleteSuccess:    "Produk berhasil dihapus.",
		MsgDeleteFailed:     "Gagal menghapus produk.",
		MsgStockAvailable:   "Produk tidak bisa dihapus karena stok masih tersedia.",
		MsgNotFound:         "Produk tidak ditemukan.",
		MsgValidationFailed: "Validasi gagal.",
		MsgInvalidBody:      "Format permintaan tidak valid.",
		MsgServerError:      "Terjadi kesalahan pada server.",

		"product_name.required":  "Nama produk wajib diisi.",
		"product_name.string":    "Nama produk harus berupa teks.",
		"product_name.max":       "Nama produk maksimal 255 karakter.",
		"product_name.unique":    "Nama produk sudah digunakan, silakan pilih nama lain.",
		"description.string":     "Deskripsi harus berupa teks.",
		"product_price.required": "Harga produk wajib diisi.",
		"product_price.numeric":  "Harga harus berupa angka.",
		"product_price.min":      "Harga tidak boleh kurang dari 0.",
		"product_price.max":      "Harga maksimal 9999999999.99.",
		"stock.required":         "Stok wajib diisi.",
		"stock.integer":          "Stok harus berupa bilangan bulat.",
		"stock.min":              "Stok tidak boleh kurang dari 0.",
	},
	LocaleEN: {
		MsgListSuccess:      "Product list retrieved successfully.",
		MsgShowSuccess:      "Product detail retrieved successfully.",
		MsgCreateSuccess:    "Product created successfully.",
		MsgUpdateSuccess:    "Product updated successfully.",
		MsgDeleteSuccess:    "Product deleted successfully.",
		MsgDeleteFailed:     "Failed to delete product.",
		MsgStockAvailable:   "Product cannot be deleted because stock is still available.",
		MsgNotFound:         "Product not found.",
		MsgValidationFailed: "Validation failed.",
		MsgInvalidBody:      "Invalid request body.",
		MsgServerError:      "An internal server error occurred.",

		"product_name.required":  "Product name is required.",
		"product_name.string":    "Product name must be text.",
		"product_name.max":       "Product name may not exceed 255 characters.",
		"product_name.unique":    "Product name is already taken, please choose another.",
		"description.string":     "Description must be text.",
		"product_price.required": "Product price is required.",
		"product_price.numeric":  "Price must be a number.",
		"product_price.min":      "Price may not be less than 0.",
		"product_price.max":      "Price may not exceed 9999999999.99.",
		"stock.required":         "Stock is required.",
		"stock.integer":          "Stock must be an integer.",
		"stock.min":              "Stock may not be less than 0.",
	},
}

// Translators resolves a translator per request locale.
type Translators struct {
	uni      *ut.UniversalTranslator
	fallback ut.Translator
}

// New loads every catalog and makes defaultLocale the fallback.
func New(defaultLocale string) (*Translators, error) {
	uni := ut.New(id.New(), id.New(), en.New())

	for locale, messages := range catalogs {
		trans, found := uni.GetTranslator(locale)
		if !found {
			return nil, fmt.Errorf("locale %s is not registered", locale)
		}
		for key, text := range messages {
			if err := trans.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("failed to add %s message %q: %w", locale, key, err)
			}
		}
	}

	fallback, found := uni.GetTranslator(defaultLocale)
	if !found {
		return nil, fmt.Errorf("unsupported locale %q", defaultLocale)
	}

	return &Translators{uni: uni, fallback: fallback}, nil
}

// Get returns the translator for locale, or the default one.
func (t *Translators) Get(locale string) ut.Translator {
	if locale == "" {
		return t.fallback
	}
	if trans, found := t.uni.GetTranslator(locale); found {
		return trans
	}
	return t.fallback
}

// Default returns the fallback translator.
func (t *Translators) Default() ut.Translator {
	return t.fallback
}

// T translates key, returning the key itself when no message exists.
func T(trans ut.Translator, key string) string {
	msg, err := trans.T(key)
	if err != nil || msg == "" {
		return key
	}
	return msg
}
