// Package generator – local deterministic templates.
//
// Each known purpose maps to one fixed markup template and one fixed schema
// template. Class names follow BEM derived from the purpose string, and every
// schema is a single `{% schema %}…{% endschema %}` block. These templates
// are the fallback of last resort and must always be servable, so they are
// plain constants with no runtime dependencies.
package generator

// LocalArtifact returns the deterministic template for the purpose. Unknown
// purposes fall back to the generic default template.
func LocalArtifact(p Purpose) Artifact {
	if art, ok := localTemplates[p]; ok {
		return art
	}
	return defaultArtifact
}

var localTemplates = map[Purpose]Artifact{
	PurposeProduct:    {Code: productCode, Schema: productSchema},
	PurposeSlider:     {Code: sliderCode, Schema: sliderSchema},
	PurposeBanner:     {Code: bannerCode, Schema: bannerSchema},
	PurposeCollection: {Code: collectionCode, Schema: collectionSchema},
}

var defaultArtifact = Artifact{Code: defaultCode, Schema: defaultSchema}

const productCode = `<div class="product-section">
  <div class="product-section__media">
    <img class="product-section__image" src="{{ section.settings.image | image_url: width: 800 }}" alt="{{ section.settings.title | escape }}" loading="lazy">
  </div>
  <div class="product-section__content">
    <h2 class="product-section__title">{{ section.settings.title }}</h2>
    <div class="product-section__rating" aria-label="Rated {{ section.settings.rating }} out of 5">
      {% for i in (1..5) %}<span class="product-section__star{% if i <= section.settings.rating %} product-section__star--filled{% endif %}">★</span>{% endfor %}
    </div>
    <p class="product-section__description">{{ section.settings.description }}</p>
    <span class="product-section__price">{{ section.settings.price }}</span>
    <a class="product-section__button" href="{{ section.settings.button_link }}">{{ section.settings.button_label }}</a>
  </div>
</div>

<style>
  .product-section { display: flex; gap: 2rem; padding: 3rem 1.5rem; max-width: 1200px; margin: 0 auto; }
  .product-section__media { flex: 1 1 50%; }
  .product-section__image { width: 100%; height: auto; border-radius: 8px; object-fit: cover; }
  .product-section__content { flex: 1 1 50%; display: flex; flex-direction: column; gap: 1rem; }
  .product-section__title { font-size: 2rem; margin: 0; }
  .product-section__star { color: #d0d0d0; }
  .product-section__star--filled { color: #f5a623; }
  .product-section__price { font-size: 1.5rem; font-weight: 600; }
  .product-section__button { display: inline-block; padding: 0.75rem 2rem; background: #111; color: #fff; text-decoration: none; border-radius: 4px; width: fit-content; }
  @media (max-width: 749px) {
    .product-section { flex-direction: column; padding: 2rem 1rem; }
    .product-section__title { font-size: 1.5rem; }
  }
</style>`

const productSchema = `{% schema %}
{
  "name": "Product section",
  "settings": [
    { "type": "image_picker", "id": "image", "label": "Product image" },
    { "type": "text", "id": "title", "label": "Title", "default": "Featured product" },
    { "type": "range", "id": "rating", "label": "Rating", "min": 0, "max": 5, "step": 1, "default": 4 },
    { "type": "textarea", "id": "description", "label": "Description", "default": "Describe the product in a sentence or two." },
    { "type": "text", "id": "price", "label": "Price", "default": "$49.00" },
    { "type": "text", "id": "button_label", "label": "Button label", "default": "Add to cart" },
    { "type": "url", "id": "button_link", "label": "Button link" }
  ],
  "presets": [{ "name": "Product section" }]
}
{% endschema %}`

const sliderCode = `<div class="slider-section" data-autoplay="{{ section.settings.autoplay }}" data-interval="{{ section.settings.interval }}">
  <div class="slider-section__track">
    {% for block in section.blocks %}
      <div class="slider-section__slide" {{ block.shopify_attributes }}>
        <img class="slider-section__image" src="{{ block.settings.image | image_url: width: 1600 }}" alt="{{ block.settings.heading | escape }}" loading="lazy">
        <div class="slider-section__caption">
          <h3 class="slider-section__heading">{{ block.settings.heading }}</h3>
        </div>
      </div>
    {% endfor %}
  </div>
  <button class="slider-section__control slider-section__control--prev" aria-label="Previous slide">‹</button>
  <button class="slider-section__control slider-section__control--next" aria-label="Next slide">›</button>
</div>

<style>
  .slider-section { position: relative; overflow: hidden; }
  .slider-section__track { display: flex; transition: transform 0.4s ease; }
  .slider-section__slide { flex: 0 0 100%; position: relative; }
  .slider-section__image { width: 100%; height: 480px; object-fit: cover; }
  .slider-section__caption { position: absolute; bottom: 2rem; left: 2rem; color: #fff; text-shadow: 0 1px 4px rgba(0,0,0,0.5); }
  .slider-section__control { position: absolute; top: 50%; transform: translateY(-50%); background: rgba(0,0,0,0.4); color: #fff; border: none; font-size: 2rem; width: 3rem; height: 3rem; border-radius: 50%; cursor: pointer; }
  .slider-section__control--prev { left: 1rem; }
  .slider-section__control--next { right: 1rem; }
  @media (max-width: 749px) {
    .slider-section__image { height: 280px; }
    .slider-section__caption { bottom: 1rem; left: 1rem; }
  }
</style>`

const sliderSchema = `{% schema %}
{
  "name": "Image slider",
  "settings": [
    { "type": "checkbox", "id": "autoplay", "label": "Auto-rotate slides", "default": true },
    { "type": "range", "id": "interval", "label": "Seconds between slides", "min": 3, "max": 9, "step": 2, "default": 5 }
  ],
  "blocks": [
    {
      "type": "slide",
      "name": "Slide",
      "settings": [
        { "type": "image_picker", "id": "image", "label": "Image" },
        { "type": "text", "id": "heading", "label": "Heading", "default": "Tell your story" }
      ]
    }
  ],
  "max_blocks": 6,
  "presets": [{ "name": "Image slider", "blocks": [{ "type": "slide" }, { "type": "slide" }] }]
}
{% endschema %}`

const bannerCode = `<div class="banner-section" style="background-color: {{ section.settings.background }};">
  <div class="banner-section__inner">
    <h2 class="banner-section__heading">{{ section.settings.heading }}</h2>
    <p class="banner-section__subheading">{{ section.settings.subheading }}</p>
    <a class="banner-section__button" href="{{ section.settings.button_link }}">{{ section.settings.button_label }}</a>
  </div>
</div>

<style>
  .banner-section { padding: 4rem 1.5rem; text-align: center; }
  .banner-section__inner { max-width: 720px; margin: 0 auto; }
  .banner-section__heading { font-size: 2.5rem; margin: 0 0 0.5rem; }
  .banner-section__subheading { font-size: 1.125rem; opacity: 0.8; margin: 0 0 1.5rem; }
  .banner-section__button { display: inline-block; padding: 0.875rem 2.5rem; background: #111; color: #fff; text-decoration: none; border-radius: 4px; }
  @media (max-width: 749px) {
    .banner-section { padding: 2.5rem 1rem; }
    .banner-section__heading { font-size: 1.75rem; }
  }
</style>`

const bannerSchema = `{% schema %}
{
  "name": "Promotional banner",
  "settings": [
    { "type": "text", "id": "heading", "label": "Heading", "default": "Summer sale" },
    { "type": "text", "id": "subheading", "label": "Subheading", "default": "Up to 40% off selected items" },
    { "type": "color", "id": "background", "label": "Background color", "default": "#f4f1ec" },
    { "type": "text", "id": "button_label", "label": "Button label", "default": "Shop now" },
    { "type": "url", "id": "button_link", "label": "Button link" }
  ],
  "presets": [{ "name": "Promotional banner" }]
}
{% endschema %}`

const collectionCode = `<div class="collection-section">
  <h2 class="collection-section__title">{{ section.settings.title }}</h2>
  <div class="collection-section__grid" style="--columns: {{ section.settings.columns }};">
    {% for product in collections[section.settings.collection].products limit: section.settings.limit %}
      <a class="collection-section__card" href="{{ product.url }}">
        <img class="collection-section__image" src="{{ product.featured_image | image_url: width: 600 }}" alt="{{ product.title | escape }}" loading="lazy">
        <span class="collection-section__name">{{ product.title }}</span>
        <span class="collection-section__price">{{ product.price | money }}</span>
      </a>
    {% endfor %}
  </div>
</div>

<style>
  .collection-section { padding: 3rem 1.5rem; max-width: 1200px; margin: 0 auto; }
  .collection-section__title { font-size: 2rem; margin: 0 0 1.5rem; }
  .collection-section__grid { display: grid; grid-template-columns: repeat(var(--columns, 4), 1fr); gap: 1.5rem; }
  .collection-section__card { display: flex; flex-direction: column; gap: 0.5rem; text-decoration: none; color: inherit; }
  .collection-section__image { width: 100%; aspect-ratio: 1; object-fit: cover; border-radius: 6px; }
  .collection-section__price { font-weight: 600; }
  @media (max-width: 749px) {
    .collection-section__grid { grid-template-columns: repeat(2, 1fr); gap: 1rem; }
  }
</style>`

const collectionSchema = `{% schema %}
{
  "name": "Collection grid",
  "settings": [
    { "type": "text", "id": "title", "label": "Title", "default": "Shop the collection" },
    { "type": "collection", "id": "collection", "label": "Collection" },
    { "type": "range", "id": "columns", "label": "Columns on desktop", "min": 2, "max": 5, "step": 1, "default": 4 },
    { "type": "range", "id": "limit", "label": "Products to show", "min": 2, "max": 12, "step": 2, "default": 8 }
  ],
  "presets": [{ "name": "Collection grid" }]
}
{% endschema %}`

const defaultCode = `<div class="custom-section">
  <div class="custom-section__inner">
    <h2 class="custom-section__heading">{{ section.settings.heading }}</h2>
    <div class="custom-section__content">{{ section.settings.content }}</div>
  </div>
</div>

<style>
  .custom-section { padding: 3rem 1.5rem; }
  .custom-section__inner { max-width: 960px; margin: 0 auto; }
  .custom-section__heading { font-size: 2rem; margin: 0 0 1rem; }
  @media (max-width: 749px) {
    .custom-section { padding: 2rem 1rem; }
    .custom-section__heading { font-size: 1.5rem; }
  }
</style>`

const defaultSchema = `{% schema %}
{
  "name": "Custom section",
  "settings": [
    { "type": "text", "id": "heading", "label": "Heading", "default": "Custom section" },
    { "type": "richtext", "id": "content", "label": "Content", "default": "<p>Add your content here.</p>" }
  ],
  "presets": [{ "name": "Custom section" }]
}
{% endschema %}`
