package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"recipe-shopper/internal/ingredient"
	"recipe-shopper/internal/recipe"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

var (
	recipeNamePattern     = regexp.MustCompile(`^[a-zA-ZäöüßÄÖÜ0-9\s\-.,!?()]+$`)
	ingredientNamePattern = regexp.MustCompile(`^[a-zA-ZäöüßÄÖÜ0-9\s\-.,()]+$`)
	ingredientLinePattern = regexp.MustCompile(`^(\d+(?:[.,]\d+)?(?:/\d+)?)\s*(.*)$`)
)

// Limits bounds user input.
type Limits struct {
	MaxRecipeNameLength     int
	MaxIngredientNameLength int
	MaxInstructionsLength   int
	MaxIngredients          int
	MinServings             int
	MaxServings             int
	MaxAmount               float64
	MaxImageSize            int64
	MaxRecipes              int
}

// DefaultLimits returns the built-in limits.
func DefaultLimits() Limits {
	return Limits{
		MaxRecipeNameLength:     200,
		MaxIngredientNameLength: 100,
		MaxInstructionsLength:   10000,
		MaxIngredients:          50,
		MinServings:             1,
		MaxServings:             100,
		MaxAmount:               10000,
		MaxImageSize:            5 * 1024 * 1024,
		MaxRecipes:              500,
	}
}

var (
	allowedImageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp"}
	blockedImageTypes = []string{"image/svg+xml", "image/svg"}
)

// Validator checks and normalizes user input against a unit set and limits.
type Validator struct {
	units       ingredient.UnitSet
	defaultUnit ingredient.Unit
	limits      Limits
}

// New creates a Validator. Lines without a unit get ingredient.Piece unless
// WithDefaultUnit says otherwise.
func New(units ingredient.UnitSet, limits Limits) *Validator {
	return &Validator{units: units, defaultUnit: ingredient.Piece, limits: limits}
}

// WithDefaultUnit returns a copy that assigns u to lines without a unit.
func (v *Validator) WithDefaultUnit(u ingredient.Unit) *Validator {
	c := *v
	c.defaultUnit = u
	return &c
}

// Default uses the built-in unit set and limits.
func Default() *Validator {
	return New(ingredient.DefaultUnits(), DefaultLimits())
}

// Limits returns the configured limits.
func (v *Validator) Limits() Limits {
	return v.limits
}

// Units returns the configured unit set.
func (v *Validator) Units() ingredient.UnitSet {
	return v.units
}

// DefaultUnit is the unit assigned to lines that name none.
func (v *Validator) DefaultUnit() ingredient.Unit {
	return v.defaultUnit
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// ValidateRecipeName returns the trimmed name.
func (v *Validator) ValidateRecipeName(name string) (string, error) {
	return v.validateName("recipe name", name, v.limits.MaxRecipeNameLength, recipeNamePattern)
}

// ValidateIngredientName returns the trimmed name.
func (v *Validator) ValidateIngredientName(name string) (string, error) {
	return v.validateName("ingredient name", name, v.limits.MaxIngredientNameLength, ingredientNamePattern)
}

func (v *Validator) validateName(field, name string, maxLen int, pattern *regexp.Regexp) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", invalid("%s must not be empty", field)
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return "", invalid("%s too long (max %d characters)", field, maxLen)
	}
	if !pattern.MatchString(trimmed) {
		return "", invalid("%s contains invalid characters", field)
	}
	return trimmed, nil
}

// ValidateServings checks the servings range.
func (v *Validator) ValidateServings(servings int) error {
	if servings < v.limits.MinServings {
		return invalid("servings must be at least %d", v.limits.MinServings)
	}
	if servings > v.limits.MaxServings {
		return invalid("servings must be at most %d", v.limits.MaxServings)
	}
	return nil
}

// ValidateAmount returns the amount rounded to two decimals.
func (v *Validator) ValidateAmount(amount float64) (float64, error) {
	if amount <= 0 {
		return 0, invalid("amount must be greater than 0")
	}
	if amount > v.limits.MaxAmount {
		return 0, invalid("amount too large (max %s)", ingredient.FormatNumber(v.limits.MaxAmount))
	}
	return ingredient.Round2(amount), nil
}

// ValidateUnit checks membership in the configured unit set.
func (v *Validator) ValidateUnit(unit ingredient.Unit) error {
	if !v.units.Contains(unit) {
		return invalid("unknown unit %q", unit)
	}
	return nil
}

// ValidateInstructions returns the trimmed instructions. Empty is allowed.
func (v *Validator) ValidateInstructions(instructions string) (string, error) {
	trimmed := strings.TrimSpace(instructions)
	if utf8.RuneCountInString(trimmed) > v.limits.MaxInstructionsLength {
		return "", invalid("instructions too long (max %d characters)", v.limits.MaxInstructionsLength)
	}
	return trimmed, nil
}

// ValidateImage checks an image's content type and size.
func (v *Validator) ValidateImage(contentType string, size int64) error {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, blocked := range blockedImageTypes {
		if ct == blocked {
			return invalid("SVG images are not allowed")
		}
	}
	allowed := false
	for _, a := range allowedImageTypes {
		if ct == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return invalid("only JPG, PNG and WebP images are allowed, got %q", contentType)
	}
	if size > v.limits.MaxImageSize {
		return invalid("image too large (max %dMB)", v.limits.MaxImageSize/(1024*1024))
	}
	return nil
}

// ValidateEntry validates a numeric ingredient and returns its normalized
// form. Composite amounts are never valid recipe input.
func (v *Validator) ValidateEntry(e ingredient.Entry) (ingredient.Entry, error) {
	value, unit, ok := e.Amount.Numeric()
	if !ok {
		return ingredient.Entry{}, invalid("amount must be a number")
	}
	var errs []error
	name, err := v.ValidateIngredientName(e.Name)
	if err != nil {
		errs = append(errs, err)
	}
	value, err = v.ValidateAmount(value)
	if err != nil {
		errs = append(errs, err)
	}
	if err := v.ValidateUnit(unit); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return ingredient.Entry{}, errors.Join(errs...)
	}
	return ingredient.New(name, value, unit), nil
}

// ValidateRecipe checks every field and returns the normalized recipe. All
// field errors are joined into one error.
func (v *Validator) ValidateRecipe(r recipe.Recipe) (recipe.Recipe, error) {
	var errs []error
	out := r

	name, err := v.ValidateRecipeName(r.Name)
	if err != nil {
		errs = append(errs, err)
	}
	out.Name = name

	if err := v.ValidateServings(r.Servings); err != nil {
		errs = append(errs, err)
	}

	instructions, err := v.ValidateInstructions(r.Instructions)
	if err != nil {
		errs = append(errs, err)
	}
	out.Instructions = instructions

	switch {
	case len(r.Ingredients) == 0:
		errs = append(errs, invalid("at least one ingredient is required"))
	case len(r.Ingredients) > v.limits.MaxIngredients:
		errs = append(errs, invalid("too many ingredients (max %d)", v.limits.MaxIngredients))
	default:
		out.Ingredients = make([]ingredient.Entry, 0, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			e, err := v.ValidateEntry(ing)
			if err != nil {
				errs = append(errs, fmt.Errorf("ingredient %d: %w", i+1, err))
				continue
			}
			out.Ingredients = append(out.Ingredients, e)
		}
	}

	if len(errs) > 0 {
		return recipe.Recipe{}, errors.Join(errs...)
	}
	return out, nil
}

// ParseIngredientLine parses "<amount> [unit] <name>", e.g. "1,5 l Milch" or
// "1/2 TL Salz". The decimal separator may be a comma or a dot. A second token
// that is not a known unit starts the name and the default unit applies.
func (v *Validator) ParseIngredientLine(line string) (ingredient.Entry, error) {
	m := ingredientLinePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ingredient.Entry{}, invalid("ingredient line %q must start with an amount", line)
	}

	value, err := parseQuantity(m[1])
	if err != nil {
		return ingredient.Entry{}, invalid("ingredient line %q: %v", line, err)
	}

	rest := strings.TrimSpace(m[2])
	unit := v.defaultUnit
	if first, after, _ := strings.Cut(rest, " "); v.units.Contains(ingredient.Unit(first)) {
		unit = ingredient.Unit(first)
		rest = strings.TrimSpace(after)
	}
	if rest == "" {
		return ingredient.Entry{}, invalid("ingredient line %q has no name", line)
	}

	return v.ValidateEntry(ingredient.New(rest, value, unit))
}

func parseQuantity(s string) (float64, error) {
	s = strings.ReplaceAll(s, ",", ".")
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, errors.New("division by zero")
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}
