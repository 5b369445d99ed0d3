package http

import (
	domcart "example.com/storefront/internal/domain/cart"
	domcategory "example.com/storefront/internal/domain/category"
	domcontact "example.com/storefront/internal/domain/contact"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
	domreview "example.com/storefront/internal/domain/review"
	domuser "example.com/storefront/internal/domain/user"
	cartuc "example.com/storefront/internal/usecase/cart"
	dashboarduc "example.com/storefront/internal/usecase/dashboard"
)

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"phone":      u.Phone,
		"address":    u.Address,
		"created_at": u.CreatedAt,
	}
}

func mapCategory(c *domcategory.Category) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"image":       c.Image,
		"is_active":   c.IsActive,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return map[string]any{
		"id":          p.ID,
		"seller_id":   p.SellerID,
		"category_id": p.CategoryID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"in_stock":    p.InStock(),
		"image":       p.Image,
		"images":      images,
		"is_active":   p.IsActive,
		"created_at":  p.CreatedAt,
	}
}

func mapProducts(products []*domproduct.Product) []map[string]any {
	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	return resp
}

func mapSnapshot(s cartuc.Snapshot) map[string]any {
	items := make([]map[string]any, 0, len(s.Entries))
	for _, e := range s.Entries {
		items = append(items, map[string]any{
			"product":  e.Product,
			"quantity": e.Quantity,
			"subtotal": e.Subtotal(),
		})
	}
	return map[string]any{
		"items": items,
		"total": s.Total,
		"count": s.Count,
	}
}

func mapOutcome(o domcart.Outcome) map[string]any {
	return map[string]any{
		"product_id": o.ProductID,
		"requested":  o.Requested,
		"applied":    o.Applied,
		"clamped":    o.Clamped,
		"removed":    o.Removed,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price,
			"quantity":   item.Quantity,
			"image":      item.Image,
		})
	}

	return map[string]any{
		"id":               o.ID,
		"user_id":          o.UserID,
		"status":           o.Status,
		"payment_method":   o.PaymentMethod,
		"payment_status":   o.PaymentStatus,
		"total_amount":     o.TotalAmount,
		"shipping_address": o.ShippingAddress,
		"created_at":       o.CreatedAt,
		"items":            items,
	}
}

func mapOrders(orders []*domorder.Order) []map[string]any {
	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	return resp
}

func mapReview(r *domreview.Review) map[string]any {
	return map[string]any{
		"id":         r.ID,
		"product_id": r.ProductID,
		"user_id":    r.UserID,
		"user_name":  r.UserName,
		"rating":     r.Rating,
		"comment":    r.Comment,
		"created_at": r.CreatedAt,
	}
}

func mapMessage(m *domcontact.Message) map[string]any {
	return map[string]any{
		"id":         m.ID,
		"name":       m.Name,
		"email":      m.Email,
		"subject":    m.Subject,
		"message":    m.Body,
		"created_at": m.CreatedAt,
	}
}

func mapStats(s *dashboarduc.Stats) map[string]any {
	return map[string]any{
		"total_sales":    s.TotalSales,
		"total_orders":   s.TotalOrders,
		"pending_orders": s.PendingOrders,
		"buyers":         s.Buyers,
		"sellers":        s.Sellers,
		"products":       s.Products,
		"recent_orders":  mapOrders(s.RecentOrders),
	}
}
