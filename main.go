package main

import (
	"fmt"

	"github.com/voyage-web/voyage/framework/app"
	"github.com/voyage-web/voyage/framework/container"
	"github.com/voyage-web/voyage/framework/dispatch"
	"github.com/voyage-web/voyage/framework/registry"
	"github.com/voyage-web/voyage/framework/validation"
)

// ── Services ─────────────────────────────────────────────────────────────────

// CatalogService is a stand-in product store.
type CatalogService struct {
	products map[int]string
}

func NewCatalogService() *CatalogService {
	return &CatalogService{products: map[int]string{
		1:  "Compass",
		2:  "Sextant",
		42: "Astrolabe",
	}}
}

func (s *CatalogService) All() []string {
	return []string{"Compass", "Sextant", "Astrolabe"}
}

func (s *CatalogService) Featured() string { return "Astrolabe" }

func (s *CatalogService) Find(id int) (string, bool) {
	name, ok := s.products[id]
	return name, ok
}

// ── Models ───────────────────────────────────────────────────────────────────

// UserModel is bound and validated before UsersController.store runs.
type UserModel struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (m *UserModel) ValidationRules() validation.Rules {
	return validation.Rules{
		"name":  "required|min:2",
		"email": "required|email",
	}
}

// ── Controllers ──────────────────────────────────────────────────────────────

type HomeController struct {
	dispatch.Controller
}

func (c *HomeController) Index(_ any) (any, error) {
	return dispatch.JSON{Data: map[string]any{"message": "Welcome aboard"}}, nil
}

// ProductsController receives the catalog through heuristic wiring: the
// "catalog" parameter matches the registered "CatalogService" identity.
type ProductsController struct {
	dispatch.Controller
	Catalog *CatalogService
}

func NewProductsController(catalog any) *ProductsController {
	svc, _ := catalog.(*CatalogService)
	return &ProductsController{Catalog: svc}
}

func (c *ProductsController) Index(_ any) (any, error) {
	return dispatch.JSON{Data: c.Catalog.All()}, nil
}

func (c *ProductsController) Featured(_ any) (any, error) {
	return dispatch.JSON{Data: c.Catalog.Featured()}, nil
}

func (c *ProductsController) Show(id float64) (any, error) {
	name, ok := c.Catalog.Find(int(id))
	if !ok {
		return dispatch.Redirect{Controller: "products", Action: "index"}, nil
	}
	return dispatch.JSON{Data: map[string]any{"id": int(id), "name": name}}, nil
}

type UsersController struct {
	dispatch.Controller
}

func (c *UsersController) Store(user *UserModel) (any, error) {
	if !c.ModelState.IsValid {
		return dispatch.Data{Value: map[string]any{"errors": c.ModelState.Errors}}, nil
	}
	return dispatch.JSON{Data: map[string]any{"created": user.Name}}, nil
}

// ── Wiring ───────────────────────────────────────────────────────────────────

func main() {
	application := app.New() // loads .env automatically
	application.Boot()
	application.EnableHeuristicWiring(true)

	application.AddSingletonFactory("CatalogService", func(c *container.Container) any {
		return NewCatalogService()
	})

	reg := application.Registry()
	router := application.Router()

	router.RegisterController(&registry.ControllerEntry{
		Name: "home",
		Ctor: func() *HomeController { return &HomeController{} },
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				return ctrl.(*HomeController).Index(args[0])
			},
		},
	})

	router.RegisterController(&registry.ControllerEntry{
		Name:   "products",
		Ctor:   NewProductsController,
		Params: []string{"catalog"},
		Actions: map[string]registry.ActionFunc{
			"index": func(ctrl any, args []any) (any, error) {
				return ctrl.(*ProductsController).Index(args[0])
			},
			"featured": func(ctrl any, args []any) (any, error) {
				return ctrl.(*ProductsController).Featured(args[0])
			},
			"show": func(ctrl any, args []any) (any, error) {
				return ctrl.(*ProductsController).Show(args[0].(float64))
			},
		},
	})

	router.RegisterController(&registry.ControllerEntry{
		Name: "users",
		Ctor: func() *UsersController { return &UsersController{} },
		Actions: map[string]registry.ActionFunc{
			"store": func(ctrl any, args []any) (any, error) {
				return ctrl.(*UsersController).Store(args[0].(*UserModel))
			},
		},
	})

	// Declared routes take precedence over convention.
	reg.AddRoute(registry.RouteEntry{Path: "products/featured", Controller: "products", Action: "featured"})
	reg.AddRoute(registry.RouteEntry{Path: "catalog", Controller: "products", Action: "index"})

	// Parameter descriptors: products/show takes a number, users/store a model.
	reg.SetParameters("products", "show",
		registry.ParameterDescriptor{Index: 0, Name: "id", Type: registry.NumberParam})
	reg.SetParameters("users", "store",
		registry.ParameterDescriptor{Index: 0, Name: "user", Type: registry.ModelParam,
			Model: func() any { return &UserModel{} }})

	// Legacy static route.
	router.AddRoute("/shop", "products")

	if err := application.Start(); err != nil {
		fmt.Println("startup navigation failed:", err)
	}
	if err := application.Serve(":8000"); err != nil {
		fmt.Println("server error:", err)
	}
}
