// Package listing serves paginated, bilingual, searchable option listings
// over net/http in the envelope remote select controls consume:
//
//	{"data": [{"id": "1", "nameEn": "Riyadh", "nameAr": "الرياض"}],
//	 "pagination": {"page": 1, "limit": 10, "total": 15, "totalPages": 2,
//	                "hasPrevious": false, "hasNext": true}}
//
// The handler answers GET and HEAD requests. Search matches either language,
// case-insensitively, with prefix matches first. A sample list of cities is
// embedded under data/cities.yaml.
package listing
