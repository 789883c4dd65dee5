package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/campuseats/app/resources"
	"github.com/shashiranjanraj/campuseats/app/services"
	"github.com/shashiranjanraj/campuseats/pkg/collection"
	"github.com/shashiranjanraj/campuseats/pkg/ctx"
)

// CatalogController serves the menu and the admin CRUD behind it.
type CatalogController struct {
	service *services.CatalogService
}

func NewCatalogController() *CatalogController {
	return &CatalogController{service: services.NewCatalogService()}
}

// Index lists the full catalog.
func (cc *CatalogController) Index(c *ctx.Context) {
	items, err := cc.service.List()
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(collection.Map(items, resources.FoodItemMap))
}

// Show returns one food item.
func (cc *CatalogController) Show(c *ctx.Context) {
	item, err := cc.service.Get(c.ParamUint("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(resources.FoodItemMap(item))
}

// Store creates a menu entry (admin).
func (cc *CatalogController) Store(c *ctx.Context) {
	var input services.FoodItemInput
	if !c.BindJSON(&input) {
		return
	}
	item, err := cc.service.Create(input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Created(item)
}

// Update edits a menu entry (admin).
func (cc *CatalogController) Update(c *ctx.Context) {
	var input services.FoodItemInput
	if !c.BindJSON(&input) {
		return
	}
	item, err := cc.service.Update(c.ParamUint("id"), input)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(item)
}

// Destroy removes a menu entry (admin).
func (cc *CatalogController) Destroy(c *ctx.Context) {
	if err := cc.service.Delete(c.ParamUint("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage accepts a multipart image for a menu entry (admin) and
// stores it on the configured disk.
func (cc *CatalogController) UploadImage(c *ctx.Context) {
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	item, err := cc.service.UploadImage(c.ParamUint("id"), header.Filename, file)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Success(item)
}
