package email

const orderTemplate = `<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #3b82f6; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
    .content { background-color: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
    .section { margin-bottom: 20px; }
    .section-title { font-size: 16px; font-weight: bold; color: #1f2937; margin-bottom: 10px; border-bottom: 2px solid #3b82f6; padding-bottom: 5px; }
    table { width: 100%; border-collapse: collapse; margin: 10px 0; }
    th { background-color: #e5e7eb; padding: 10px; text-align: left; font-weight: bold; }
    td { padding: 12px; border-bottom: 1px solid #ddd; }
    .total-section { background-color: #ffffff; padding: 15px; border: 1px solid #e5e7eb; border-radius: 5px; }
    .total-row { display: flex; justify-content: space-between; padding: 8px 0; }
    .total-row.final { font-size: 18px; font-weight: bold; color: #3b82f6; border-top: 2px solid #3b82f6; padding-top: 15px; margin-top: 10px; }
    .footer { text-align: center; color: #6b7280; font-size: 12px; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Order Confirmation</h1>
      <p>Order #{{.OrderNumber}}</p>
    </div>

    <div class="content">
      {{if .IsOwner}}<div class="section"><div class="section-title">New Order Received</div></div>{{end}}

      <div class="section">
        <div class="section-title">Order Details</div>
        <table>
          <thead>
            <tr><th>Product</th><th>Quantity</th><th>Price</th><th>Total</th></tr>
          </thead>
          <tbody>
            {{range .Items}}
            <tr>
              <td>{{.Name}}</td>
              <td style="text-align: center;">{{.Quantity}}</td>
              <td style="text-align: right;">{{.UnitPrice}}</td>
              <td style="text-align: right;">{{.LineTotal}}</td>
            </tr>
            {{end}}
          </tbody>
        </table>
      </div>

      <div class="section">
        <div class="section-title">Customer Information</div>
        <p><strong>Name:</strong> {{.Customer.Name}}</p>
        <p><strong>Email:</strong> {{.Customer.Email}}</p>
        <p><strong>Phone:</strong> {{.Customer.Phone}}</p>
        <p><strong>Address:</strong> {{.Customer.Address}}</p>
      </div>

      <div class="section">
        <div class="total-section">
          <div class="total-row"><span>Subtotal:</span><span>{{.Subtotal}}</span></div>
          <div class="total-row"><span>Tax:</span><span>{{.Tax}}</span></div>
          <div class="total-row"><span>Shipping:</span><span>{{.Shipping}}</span></div>
          <div class="total-row final"><span>Total Amount:</span><span>{{.Total}}</span></div>
        </div>
      </div>

      <div class="section">
        <div class="section-title">Order Status</div>
        <p><strong>Status:</strong> Pending - Awaiting payment verification</p>
      </div>

      {{if not .IsOwner}}<div class="section"><p>We appreciate your order! We will get back to you shortly with a confirmation.</p></div>{{end}}
    </div>

    <div class="footer">
      <p>{{.ShopName}} | Thank you for your business</p>
    </div>
  </div>
</body>
</html>
`
