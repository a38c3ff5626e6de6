package seed

import (
	dashboarddomain "github.com/smallbiznis/invoicedesk/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/invoicedesk/internal/invoice/domain"
	"github.com/smallbiznis/invoicedesk/pkg/money"
)

type userSeed struct {
	ID       string
	Name     string
	Email    string
	Password string
}

type customerSeed struct {
	ID       string
	Name     string
	Email    string
	ImageURL string
}

type invoiceSeed struct {
	Customer int
	Amount   money.Cents
	Status   invoicedomain.Status
	Date     string
}

var users = []userSeed{
	{ID: "410544b2-4001-4271-9855-fec4b6a6442a", Name: "User", Email: "user@nextmail.com", Password: "123456"},
}

var customers = []customerSeed{
	{ID: "d6e15727-9fe1-4961-8c5b-ea44a9bd81aa", Name: "Evil Rabbit", Email: "evil@rabbit.com", ImageURL: "/customers/evil-rabbit.png"},
	{ID: "3958dc9e-712f-4377-85e9-fec4b6a6442a", Name: "Delba de Oliveira", Email: "delba@oliveira.com", ImageURL: "/customers/delba-de-oliveira.png"},
	{ID: "3958dc9e-742f-4377-85e9-fec4b6a6442a", Name: "Lee Robinson", Email: "lee@robinson.com", ImageURL: "/customers/lee-robinson.png"},
	{ID: "76d65c26-f784-44a2-ac19-586678f7c2f2", Name: "Michael Novotny", Email: "michael@novotny.com", ImageURL: "/customers/michael-novotny.png"},
	{ID: "cc27c14a-0acf-4f4a-a6c9-d45682c144b9", Name: "Amy Burns", Email: "amy@burns.com", ImageURL: "/customers/amy-burns.png"},
	{ID: "13d07535-c59e-4157-a011-f8d2ef4e0cbb", Name: "Balazs Orban", Email: "balazs@orban.com", ImageURL: "/customers/balazs-orban.png"},
}

// Customer is an index into customers.
var invoices = []invoiceSeed{
	{Customer: 0, Amount: 15795, Status: invoicedomain.StatusPending, Date: "2022-12-06"},
	{Customer: 1, Amount: 20348, Status: invoicedomain.StatusPending, Date: "2022-11-14"},
	{Customer: 4, Amount: 3040, Status: invoicedomain.StatusPaid, Date: "2022-10-29"},
	{Customer: 3, Amount: 44800, Status: invoicedomain.StatusPaid, Date: "2023-09-10"},
	{Customer: 5, Amount: 34577, Status: invoicedomain.StatusPending, Date: "2023-08-05"},
	{Customer: 2, Amount: 54246, Status: invoicedomain.StatusPending, Date: "2023-07-16"},
	{Customer: 0, Amount: 666, Status: invoicedomain.StatusPending, Date: "2023-06-27"},
	{Customer: 3, Amount: 32545, Status: invoicedomain.StatusPaid, Date: "2023-06-09"},
	{Customer: 4, Amount: 1250, Status: invoicedomain.StatusPaid, Date: "2023-06-17"},
	{Customer: 5, Amount: 8546, Status: invoicedomain.StatusPaid, Date: "2023-06-07"},
	{Customer: 1, Amount: 500, Status: invoicedomain.StatusPaid, Date: "2023-08-19"},
	{Customer: 5, Amount: 8945, Status: invoicedomain.StatusPaid, Date: "2023-06-03"},
	{Customer: 2, Amount: 1000, Status: invoicedomain.StatusPaid, Date: "2022-06-05"},
}

var revenue = []dashboarddomain.Revenue{
	{Month: "Jan", Revenue: 2000},
	{Month: "Feb", Revenue: 1800},
	{Month: "Mar", Revenue: 2200},
	{Month: "Apr", Revenue: 2500},
	{Month: "May", Revenue: 2300},
	{Month: "Jun", Revenue: 3200},
	{Month: "Jul", Revenue: 3500},
	{Month: "Aug", Revenue: 3700},
	{Month: "Sep", Revenue: 2500},
	{Month: "Oct", Revenue: 2800},
	{Month: "Nov", Revenue: 3000},
	{Month: "Dec", Revenue: 4800},
}
