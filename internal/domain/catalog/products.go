// internal/domain/catalog/products.go
package catalog

var defaultCategories = []CategoryInfo{
	{ID: CategoryWebDevelopment, Name: "Web Development", Description: "Professional websites and web applications"},
	{ID: CategoryDataAnalytics, Name: "Data Analytics", Description: "Business intelligence and reporting solutions"},
	{ID: CategoryDataScience, Name: "Data Science", Description: "ML models and predictive analytics"},
	{ID: CategoryDigitalServices, Name: "Digital Services", Description: "Branding, design, and digital solutions"},
}

var defaultProducts = []Product{
	// Web development
	{
		ID: "web-basic", Title: "Basic Website",
		Description: "1–3 pages, perfect for personal or small business sites",
		PriceZAR:    1000, PriceUSD: 55,
		Features: []string{"Simple layout", "Mobile-friendly", "Contact form"},
		Category: CategoryWebDevelopment, Tier: TierBasic,
	},
	{
		ID: "web-standard", Title: "Standard Website",
		Description: "4–7 pages with custom design and SEO",
		PriceZAR:    2500, PriceUSD: 135,
		Features: []string{"Custom design", "SEO setup", "Performance optimization"},
		Category: CategoryWebDevelopment, Tier: TierStandard, Popular: true,
	},
	{
		ID: "web-advanced", Title: "Advanced Website",
		Description: "8+ pages with custom features and API-ready UI",
		PriceZAR:    5500, PriceUSD: 295,
		Features: []string{"Custom UI/UX", "API-ready UI", "Multiple templates"},
		Category: CategoryWebDevelopment, Tier: TierPremium,
	},
	{
		ID: "web-uiux", Title: "UI/UX Design Pack",
		Description: "Professional design package for your website",
		PriceZAR:    1200, PriceUSD: 65,
		Features: []string{"Custom UI design", "UX optimization", "Design mockups"},
		Category: CategoryWebDevelopment, Tier: TierExtra,
	},
	{
		ID: "web-speed", Title: "Speed Optimization",
		Description: "Boost your website performance",
		PriceZAR:    600, PriceUSD: 32,
		Features: []string{"Performance audit", "Code optimization", "Faster load times"},
		Category: CategoryWebDevelopment, Tier: TierExtra,
	},
	{
		ID: "web-maintenance", Title: "Monthly Website Maintenance",
		Description: "Keep your website updated and secure",
		PriceZAR:    250, PriceUSD: 15,
		Features: []string{"Regular updates", "Security patches", "Content updates"},
		Category: CategoryWebDevelopment, Tier: TierExtra,
	},

	// Data analytics
	{
		ID: "analytics-basic", Title: "Basic Reporting Pack",
		Description: "Excel/Sheets dashboards with basic charts",
		PriceZAR:    700, PriceUSD: 38,
		Features: []string{"Excel/Sheets dashboards", "Basic charts", "Monthly refresh"},
		Category: CategoryDataAnalytics, Tier: TierBasic,
	},
	{
		ID: "analytics-business", Title: "Business Dashboards",
		Description: "Power BI / Tableau dashboards for business intelligence",
		PriceZAR:    2000, PriceUSD: 110,
		Features: []string{"Automated KPIs", "Multi-page dashboards", "Export-ready reports"},
		Category: CategoryDataAnalytics, Tier: TierStandard, Popular: true,
	},
	{
		ID: "analytics-enterprise", Title: "Enterprise BI Setup",
		Description: "Complete business intelligence infrastructure",
		PriceZAR:    4000, PriceUSD: 215,
		Features: []string{"Dashboard system", "Data pipeline UI", "User roles UI"},
		Category: CategoryDataAnalytics, Tier: TierPremium,
	},
	{
		ID: "analytics-cleaning", Title: "Data Cleaning UI",
		Description: "Clean and prepare your data for analysis",
		PriceZAR:    450, PriceUSD: 25,
		Features: []string{"Data validation", "Error detection", "Format standardization"},
		Category: CategoryDataAnalytics, Tier: TierExtra,
	},
	{
		ID: "analytics-kpi", Title: "KPI Alert UI",
		Description: "Track and alert on key performance indicators",
		PriceZAR:    300, PriceUSD: 17,
		Features: []string{"KPI tracking", "Alert configuration", "Notification UI"},
		Category: CategoryDataAnalytics, Tier: TierExtra,
	},

	// Data science
	{
		ID: "ds-basic", Title: "Basic ML Model",
		Description: "Regression/classification model with metrics",
		PriceZAR:    2200, PriceUSD: 120,
		Features: []string{"Regression/classification model UI", "Metrics page", "Model report"},
		Category: CategoryDataScience, Tier: TierBasic,
	},
	{
		ID: "ds-predictive", Title: "Predictive Analytics",
		Description: "Forecasting and data exploration dashboards",
		PriceZAR:    4500, PriceUSD: 240,
		Features: []string{"Forecasting dashboards", "Data exploration UI", "Model comparison view"},
		Category: CategoryDataScience, Tier: TierStandard, Popular: true,
	},
	{
		ID: "ds-advanced", Title: "Advanced ML System",
		Description: "Multi-model interface with evaluation tools",
		PriceZAR:    6000, PriceUSD: 320,
		Features: []string{"Multi-model interface", "Evaluation & visualization pages", "Custom algorithm configuration UI"},
		Category: CategoryDataScience, Tier: TierPremium,
	},
	{
		ID: "ds-monitoring", Title: "Model Monitoring UI",
		Description: "Monitor your ML models in production",
		PriceZAR:    900, PriceUSD: 50,
		Features: []string{"Performance tracking", "Drift detection UI", "Alert system"},
		Category: CategoryDataScience, Tier: TierExtra,
	},
	{
		ID: "ds-pipeline", Title: "Data Pipeline UI",
		Description: "Data pipeline management interface",
		PriceZAR:    1500, PriceUSD: 82,
		Features: []string{"Pipeline visualization", "Job management UI", "Status monitoring"},
		Category: CategoryDataScience, Tier: TierExtra,
	},

	// Digital services
	{
		ID: "digital-starter", Title: "Starter Branding Pack",
		Description: "Logo and color palette for new brands",
		PriceZAR:    850, PriceUSD: 47,
		Features: []string{"Logo + color palette", "Brand basics", "Digital assets"},
		Category: CategoryDigitalServices, Tier: TierBasic,
	},
	{
		ID: "digital-full", Title: "Full Brand Identity",
		Description: "Complete branding package with social media kit",
		PriceZAR:    1800, PriceUSD: 95,
		Features: []string{"Logo set", "Social media kit", "Mini style guide"},
		Category: CategoryDigitalServices, Tier: TierStandard, Popular: true,
	},
	{
		ID: "digital-landing", Title: "Landing Page Build",
		Description: "High-converting landing page design",
		PriceZAR:    750, PriceUSD: 40,
		Features: []string{"Hero section", "Services showcase", "CTA + contact"},
		Category: CategoryDigitalServices, Tier: TierPremium,
	},
	{
		ID: "digital-social", Title: "Social Media Analytics UI",
		Description: "Track your social media performance",
		PriceZAR:    350, PriceUSD: 19,
		Features: []string{"Engagement metrics", "Follower analytics", "Content performance"},
		Category: CategoryDigitalServices, Tier: TierExtra,
	},
	{
		ID: "digital-api", Title: "API Frontend Integration",
		Description: "Connect your frontend to any API",
		PriceZAR:    500, PriceUSD: 27,
		Features: []string{"API connection UI", "Data display components", "Error handling"},
		Category: CategoryDigitalServices, Tier: TierExtra,
	},
}
