package dataset

// Field is one expected column of a dataset.
type Field struct {
	Name string
	Kind Kind
}

// Schema declares the columns a dataset is expected to carry. Presence is not guaranteed: the cleaning pipeline
// evolves independently, so a Schema only decides how a column is decoded when it does appear.
type Schema struct {
	Name       string
	TimeColumn string
	Fields     []Field
}

// Kind returns the declared kind of a column and whether the schema declares it.
func (s Schema) Kind(column string) (Kind, bool) {
	for _, f := range s.Fields {
		if f.Name == column {
			return f.Kind, true
		}
	}
	return KindString, false
}

var SessionSchema = Schema{
	Name:       "sessions",
	TimeColumn: "session_date",
	Fields: []Field{
		{"session_id", KindString},
		{"user_id", KindString},
		{"session_date", KindTime},
		{"traffic_channel", KindString},
		{"device_type", KindString},
		{"total_pageviews", KindNumber},
		{"conversion_flag", KindNumber},
		{"converted", KindNumber},
		{"total_order_value", KindNumber},
		{"was_refunded", KindNumber},
		{"customer_segment", KindString},
		{"step_home", KindNumber},
		{"step_product", KindNumber},
		{"step_cart", KindNumber},
		{"step_shipping", KindNumber},
		{"step_billing", KindNumber},
		{"step_thankyou", KindNumber},
	},
}

var OrderSchema = Schema{
	Name:       "orders",
	TimeColumn: "order_date",
	Fields: []Field{
		{"order_id", KindString},
		{"session_id", KindString},
		{"user_id", KindString},
		{"order_date", KindTime},
		{"total_amount", KindNumber},
		{"items_count", KindNumber},
	},
}

var ItemSchema = Schema{
	Name:       "items",
	TimeColumn: "created_at",
	Fields: []Field{
		{"order_item_id", KindString},
		{"order_id", KindString},
		{"product_id", KindString},
		{"product_name", KindString},
		{"price_usd", KindNumber},
		{"margin_usd", KindNumber},
		{"is_refunded", KindNumber},
		{"created_at", KindTime},
	},
}

var RefundSchema = Schema{
	Name:       "refunds",
	TimeColumn: "refund_date",
	Fields: []Field{
		{"refund_id", KindString},
		{"order_item_id", KindString},
		{"order_id", KindString},
		{"refund_date", KindTime},
		{"refund_amount", KindNumber},
		{"reason", KindString},
	},
}
