package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/arstoys/app/services"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
	"github.com/shashiranjanraj/arstoys/pkg/bind"
	"github.com/shashiranjanraj/arstoys/pkg/images"
	"github.com/shashiranjanraj/arstoys/pkg/response"
	"github.com/shashiranjanraj/arstoys/pkg/router"
)

// ImageField is the multipart field carrying a product image.
const ImageField = "image"

type ProductController struct {
	catalog   Catalog
	maxUpload int64
}

// NewProductController caps multipart bodies at maxUpload bytes of files;
// zero uses bind.DefaultMaxUpload.
func NewProductController(c Catalog, maxUpload int64) *ProductController {
	return &ProductController{catalog: c, maxUpload: maxUpload}
}

// Index handles GET /api/products?category=&search=.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.List(r.Context(), r.URL.Query())
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"products": products})
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	p, err := c.catalog.Get(r.Context(), router.Param(r, "id"))
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"product": p})
}

// Store handles POST /api/products with a JSON or multipart body.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	in, upload, err := readProduct(w, r, c.maxUpload)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	p, err := c.catalog.Create(r.Context(), in, upload)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Created(w, response.Payload{"product": p})
}

// Update handles PUT /api/products/{id}. Only supplied fields change.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	in, upload, err := readProduct(w, r, c.maxUpload)
	if err != nil {
		response.Fail(w, r, err)
		return
	}

	p, err := c.catalog.Update(r.Context(), router.Param(r, "id"), in, upload)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Success(w, response.Payload{"product": p})
}

// Destroy handles DELETE /api/products/{id}.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	if err := c.catalog.Delete(r.Context(), router.Param(r, "id")); err != nil {
		response.Fail(w, r, err)
		return
	}
	response.Message(w, "Product deleted")
}

func readProduct(w http.ResponseWriter, r *http.Request, maxUpload int64) (services.ProductInput, *images.Upload, error) {
	var in services.ProductInput
	if !bind.IsMultipart(r) {
		err := bind.JSON(w, r, &in)
		return in, nil, err
	}

	if err := bind.Multipart(w, r, maxUpload); err != nil {
		return in, nil, err
	}
	in, err := productFromForm(r)
	if err != nil {
		return in, nil, err
	}
	upload, err := imageFromForm(r)
	return in, upload, err
}

// productFromForm reads the text fields of a multipart product form. Absent
// fields stay nil so updates leave them untouched.
func productFromForm(r *http.Request) (services.ProductInput, error) {
	form := r.MultipartForm.Value
	field := func(name string) *string {
		v, ok := form[name]
		if !ok || len(v) == 0 {
			return nil
		}
		s := v[0]
		return &s
	}

	in := services.ProductInput{
		Name:     field("name"),
		Category: field("category"),
		Emoji:    field("emoji"),
		Img:      field("img"),
		Age:      field("age"),
		Desc:     field("desc"),
		Badge:    field("badge"),
		Bg:       field("bg"),
	}

	var err error
	if in.Price, err = decimalField(field("price"), "price"); err != nil {
		return in, err
	}
	if in.OriginalPrice, err = decimalField(field("originalPrice"), "originalPrice"); err != nil {
		return in, err
	}

	if s := field("inStock"); s != nil && strings.TrimSpace(*s) != "" {
		b, perr := strconv.ParseBool(strings.TrimSpace(*s))
		if perr != nil {
			return in, apperr.Validation("The inStock field must be true or false.")
		}
		in.InStock = &b
	}
	if s := field("rating"); s != nil && strings.TrimSpace(*s) != "" {
		f, perr := strconv.ParseFloat(strings.TrimSpace(*s), 64)
		if perr != nil {
			return in, apperr.Validation("The rating must be a number.")
		}
		in.Rating = &f
	}
	if s := field("reviews"); s != nil && strings.TrimSpace(*s) != "" {
		n, perr := strconv.Atoi(strings.TrimSpace(*s))
		if perr != nil {
			return in, apperr.Validation("The reviews must be an integer.")
		}
		in.Reviews = &n
	}
	return in, nil
}

func decimalField(s *string, name string) (*decimal.Decimal, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil, apperr.Validation("The %s must be a number.", name)
	}
	return &d, nil
}

// imageFromForm returns the uploaded image, or nil when none was sent.
func imageFromForm(r *http.Request) (*images.Upload, error) {
	file, header, err := r.FormFile(ImageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &images.Upload{
		Data: data,
		Meta: images.Metadata{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		},
	}, nil
}
